package storage

import (
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
)

// RecordQueue is the push/drain contract shared by every telemetry queue backing
type RecordQueue[T any] interface {
	Push(item T) error
	Drain() ([]T, error)
	Count() int64
}

// ImpressionStorageProducer interface should be implemented by structs that offer writing impressions
type ImpressionStorageProducer interface {
	Add(impressions ...dtos.Impression)
}

// ImpressionStorageConsumer interface should be implemented by structs that offer popping impressions
type ImpressionStorageConsumer interface {
	Clear() []dtos.ImpressionsDTO
	Count() int64
}

// ImpressionStorage wraps consumer & producer interfaces
type ImpressionStorage interface {
	ImpressionStorageProducer
	ImpressionStorageConsumer
}

// EventStorageProducer interface should be implemented by structs that offer writing events
type EventStorageProducer interface {
	Add(event dtos.EventDTO)
}

// EventStorageConsumer interface should be implemented by structs that offer popping events
type EventStorageConsumer interface {
	Clear() []dtos.EventDTO
	Count() int64
}

// EventStorage wraps consumer & producer interfaces
type EventStorage interface {
	EventStorageProducer
	EventStorageConsumer
}

// UniqueKeysStorageProducer interface should be implemented by structs that offer writing unique keys
type UniqueKeysStorageProducer interface {
	Add(uniques dtos.Uniques)
}

// UniqueKeysStorageConsumer interface should be implemented by structs that offer popping unique keys
type UniqueKeysStorageConsumer interface {
	Clear() dtos.Uniques
	Count() int64
}

// UniqueKeysStorage wraps consumer & producer interfaces
type UniqueKeysStorage interface {
	UniqueKeysStorageProducer
	UniqueKeysStorageConsumer
}
