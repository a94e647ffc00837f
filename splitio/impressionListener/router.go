package impressionlistener

import (
	"container/list"
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/util/reporter"
	"github.com/splitio/go-toolkit/v5/logging"
)

const listenerOperation = "impression listener"

type consumerRun struct {
	cancel context.CancelFunc
	done   chan struct{}
	drain  atomic.Bool
}

// Router delivers impressions to the user supplied listener from a single background goroutine.
// Producers never block: the queue is unbounded and only the consumer waits for items.
type Router struct {
	listener ImpressionListener
	reporter reporter.ErrorReporter
	logger   logging.LoggerInterface
	metadata dtos.Metadata

	queue *list.List
	mutex sync.Mutex
	wake  chan struct{}

	runMutex sync.Mutex
	run      *consumerRun
}

// NewRouter builds a router. A nil listener makes the consumer discard every item
func NewRouter(
	listener ImpressionListener,
	metadata dtos.Metadata,
	errorReporter reporter.ErrorReporter,
	logger logging.LoggerInterface,
) *Router {
	if errorReporter == nil {
		errorReporter = reporter.NewLoggingReporter(logger)
	}
	return &Router{
		listener: listener,
		reporter: errorReporter,
		logger:   logger,
		metadata: metadata,
		queue:    list.New(),
		wake:     make(chan struct{}, 1),
	}
}

// Add queues an item for the listener. It never blocks
func (r *Router) Add(item dtos.ImpressionListenerDTO) {
	r.mutex.Lock()
	r.queue.PushBack(item)
	r.mutex.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// AddImpression wraps an impression with the instance metadata and queues it
func (r *Router) AddImpression(impression dtos.Impression, attributes map[string]interface{}) {
	r.Add(dtos.ImpressionListenerDTO{
		Impression: dtos.ImpressionDataDTO{
			Feature:      impression.FeatureName,
			KeyName:      impression.KeyName,
			Treatment:    impression.Treatment,
			Time:         impression.Time,
			ChangeNumber: impression.ChangeNumber,
			Label:        impression.Label,
			BucketingKey: impression.BucketingKey,
			Pt:           impression.Pt,
		},
		Attributes:         attributes,
		InstanceID:         r.metadata.MachineName,
		SDKLanguageVersion: r.metadata.SDKVersion,
	})
}

// AddBulk queues one item per evaluated feature flag, sorted by flag name. Key, bucketing key and attributes are
// shared by every item
func (r *Router) AddBulk(key string, bucketingKey *string, results evaluator.Results, attributes map[string]interface{}) {
	now := time.Now().UTC().UnixNano() / int64(time.Millisecond)
	bucketing := ""
	if bucketingKey != nil {
		bucketing = *bucketingKey
	}

	featureFlags := make([]string, 0, len(results.Evaluations))
	for featureFlag := range results.Evaluations {
		featureFlags = append(featureFlags, featureFlag)
	}
	sort.Strings(featureFlags)

	for _, featureFlag := range featureFlags {
		result := results.Evaluations[featureFlag]
		r.AddImpression(dtos.Impression{
			KeyName:      key,
			BucketingKey: bucketing,
			FeatureName:  featureFlag,
			Treatment:    result.Treatment,
			Label:        result.Label,
			ChangeNumber: result.SplitChangeNumber,
			Time:         now,
		}, attributes)
	}
}

// Len returns the number of items pending delivery
func (r *Router) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.queue.Len()
}

func (r *Router) pop() (dtos.ImpressionListenerDTO, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	front := r.queue.Front()
	if front == nil {
		return dtos.ImpressionListenerDTO{}, false
	}
	return r.queue.Remove(front).(dtos.ImpressionListenerDTO), true
}

func (r *Router) deliver(item dtos.ImpressionListenerDTO) {
	if r.listener == nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.reporter.Report(listenerOperation, fmt.Errorf("listener failed for feature flag %s: %v", item.Impression.Feature, p))
		}
	}()
	r.listener.LogImpression(item)
}

func (r *Router) consume(ctx context.Context, run *consumerRun) {
	defer close(run.done)
	for {
		select {
		case <-ctx.Done():
			if run.drain.Load() {
				for item, ok := r.pop(); ok; item, ok = r.pop() {
					r.deliver(item)
				}
			}
			return
		default:
		}

		item, ok := r.pop()
		if !ok {
			select {
			case <-ctx.Done():
			case <-r.wake:
			}
			continue
		}
		r.deliver(item)
	}
}

func (r *Router) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	run := &consumerRun{cancel: cancel, done: make(chan struct{})}
	r.run = run
	go r.consume(ctx, run)
}

// Start launches the consumer goroutine. Calling it on a running router does nothing
func (r *Router) Start() {
	r.runMutex.Lock()
	defer r.runMutex.Unlock()
	if r.run != nil {
		return
	}
	r.startLocked()
}

// Stop ends the consumer goroutine and waits for it to exit. When drain is true, items pending delivery are
// handed to the listener before returning; otherwise they remain queued.
func (r *Router) Stop(drain bool) {
	r.runMutex.Lock()
	run := r.run
	r.run = nil
	r.runMutex.Unlock()
	if run == nil {
		return
	}

	run.drain.Store(drain)
	run.cancel()
	<-run.done
}

// Restart replaces the current consumer, if any, with a new one. Meant to be called by the host process
// when the previous consumer goroutine cannot be trusted to be alive. The previous consumer is stopped
// without draining, and the new one starts only after it has finished the item it was delivering.
// Queued items are kept.
func (r *Router) Restart() {
	r.Stop(false)

	r.runMutex.Lock()
	defer r.runMutex.Unlock()
	if r.run == nil {
		r.startLocked()
	}
	if r.logger != nil {
		r.logger.Debug("Impression listener consumer restarted")
	}
}

// IsRunning returns whether a consumer goroutine has been started and not stopped
func (r *Router) IsRunning() bool {
	r.runMutex.Lock()
	defer r.runMutex.Unlock()
	return r.run != nil
}
