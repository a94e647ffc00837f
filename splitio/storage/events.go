package storage

import (
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-toolkit/v5/logging"
)

// EventRepository buffers tracked events until the synchronizer collects them
type EventRepository struct {
	queue     RecordQueue[dtos.EventDTO]
	telemetry telemetry.EventTelemetryProducer
	logger    logging.LoggerInterface
	drops     *dropLogger
}

// NewEventRepository builds an event repository on top of a queue
func NewEventRepository(
	queue RecordQueue[dtos.EventDTO],
	telemetry telemetry.EventTelemetryProducer,
	logger logging.LoggerInterface,
) *EventRepository {
	return &EventRepository{
		queue:     queue,
		telemetry: telemetry,
		logger:    logger,
		drops:     &dropLogger{logger: logger, kind: "events"},
	}
}

// Add pushes an event into the queue. The event is dropped if it does not fit
func (r *EventRepository) Add(event dtos.EventDTO) {
	if err := r.queue.Push(event); err != nil {
		r.telemetry.RecordDroppedEvents(1)
		r.drops.dropped()
		return
	}
	r.telemetry.RecordQueuedEvents(1)
}

// Clear drains the queue and returns every buffered event
func (r *EventRepository) Clear() []dtos.EventDTO {
	events, err := r.queue.Drain()
	if err != nil {
		r.logger.Error("Error draining events: ", err.Error())
	}
	if events == nil {
		return []dtos.EventDTO{}
	}
	return events
}

// Count returns the number of buffered events
func (r *EventRepository) Count() int64 {
	return r.queue.Count()
}

var _ EventStorage = (*EventRepository)(nil)
