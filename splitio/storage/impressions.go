package storage

import (
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-toolkit/v5/logging"
)

// ImpressionRepository buffers impressions until the synchronizer collects them
type ImpressionRepository struct {
	queue     RecordQueue[dtos.Impression]
	telemetry telemetry.ImpressionTelemetryProducer
	logger    logging.LoggerInterface
	drops     *dropLogger
}

// NewImpressionRepository builds an impression repository on top of a queue
func NewImpressionRepository(
	queue RecordQueue[dtos.Impression],
	telemetry telemetry.ImpressionTelemetryProducer,
	logger logging.LoggerInterface,
) *ImpressionRepository {
	return &ImpressionRepository{
		queue:     queue,
		telemetry: telemetry,
		logger:    logger,
		drops:     &dropLogger{logger: logger, kind: "impressions"},
	}
}

// Add pushes every impression into the queue. Impressions that do not fit are dropped
func (r *ImpressionRepository) Add(impressions ...dtos.Impression) {
	for _, impression := range impressions {
		if err := r.queue.Push(impression); err != nil {
			r.telemetry.RecordDroppedImpressions(1)
			r.drops.dropped()
			continue
		}
		r.telemetry.RecordQueuedImpressions(1)
	}
}

// Clear drains the queue and returns the impressions grouped by feature flag, in the order flags were first seen
func (r *ImpressionRepository) Clear() []dtos.ImpressionsDTO {
	impressions, err := r.queue.Drain()
	if err != nil {
		r.logger.Error("Error draining impressions: ", err.Error())
	}
	return GroupByFeature(impressions)
}

// Count returns the number of buffered impressions
func (r *ImpressionRepository) Count() int64 {
	return r.queue.Count()
}

// GroupByFeature coalesces impressions of the same feature flag into a single entry
func GroupByFeature(impressions []dtos.Impression) []dtos.ImpressionsDTO {
	if len(impressions) == 0 {
		return []dtos.ImpressionsDTO{}
	}

	positions := make(map[string]int)
	grouped := make([]dtos.ImpressionsDTO, 0)
	for _, impression := range impressions {
		position, ok := positions[impression.FeatureName]
		if !ok {
			position = len(grouped)
			positions[impression.FeatureName] = position
			grouped = append(grouped, dtos.ImpressionsDTO{
				TestName:       impression.FeatureName,
				KeyImpressions: make([]dtos.ImpressionDTO, 0),
			})
		}
		grouped[position].KeyImpressions = append(grouped[position].KeyImpressions, impression.ToImpressionDTO())
	}
	return grouped
}

var _ ImpressionStorage = (*ImpressionRepository)(nil)
