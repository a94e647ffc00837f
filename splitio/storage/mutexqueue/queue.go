package mutexqueue

import (
	"container/list"
	"errors"
	"sync"
)

// ErrorMaxSizeReached queue max size error
var ErrorMaxSizeReached = errors.New("Queue max size has been reached")

// NewMQueue returns an instance of MQueue. Sizes lower than 1 are coerced to 1.
// isFull may be nil, otherwise it receives a non blocking signal whenever the queue gets full.
func NewMQueue[T any](queueSize int, isFull chan<- bool) *MQueue[T] {
	if queueSize < 1 {
		queueSize = 1
	}
	return &MQueue[T]{
		queue:      list.New(),
		size:       queueSize,
		mutexQueue: &sync.Mutex{},
		fullChan:   isFull,
	}
}

// MQueue in memory bounded queue
type MQueue[T any] struct {
	queue      *list.List
	size       int
	mutexQueue *sync.Mutex
	fullChan   chan<- bool //only write channel
}

func (s *MQueue[T]) sendSignalIsFull() {
	if s.fullChan == nil {
		return
	}

	// Nom blocking select
	select {
	case s.fullChan <- true:
		//Send "queue is full" signal
		break
	default:
		break
	}
}

// Push an item into the queue. It never blocks nor displaces queued items
func (s *MQueue[T]) Push(item T) error {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	if s.queue.Len()+1 > s.size {
		s.sendSignalIsFull()
		return ErrorMaxSizeReached
	}

	// Add element
	s.queue.PushBack(item)

	if s.queue.Len() == s.size {
		s.sendSignalIsFull()
	}

	return nil
}

// Drain removes and returns every queued item
func (s *MQueue[T]) Drain() ([]T, error) {
	s.mutexQueue.Lock()
	old := s.queue
	s.queue = list.New()
	s.mutexQueue.Unlock()

	toReturn := make([]T, 0, old.Len())
	for e := old.Front(); e != nil; e = e.Next() {
		toReturn = append(toReturn, e.Value.(T))
	}
	return toReturn, nil
}

// PopN pop N elements from queue
func (s *MQueue[T]) PopN(n int64) ([]T, error) {
	var totalItems int

	// Mutexing queue
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	if int64(s.queue.Len()) >= n {
		totalItems = int(n)
	} else {
		totalItems = s.queue.Len()
	}

	toReturn := make([]T, 0, totalItems)
	for i := 0; i < totalItems; i++ {
		toReturn = append(toReturn, s.queue.Remove(s.queue.Front()).(T))
	}

	return toReturn, nil
}

// Empty returns if slice len if zero
func (s *MQueue[T]) Empty() bool {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	return s.queue.Len() == 0
}

// Count returns the number of items into slice
func (s *MQueue[T]) Count() int64 {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	return int64(s.queue.Len())
}
