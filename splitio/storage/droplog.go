package storage

import (
	"sync/atomic"

	"github.com/splitio/go-toolkit/v5/logging"
)

// dropLogFrequency sets how many drops happen per logged warning
const dropLogFrequency = 500

// dropLogger emits one warning every dropLogFrequency drops
type dropLogger struct {
	logger  logging.LoggerInterface
	kind    string
	counter int64
}

func (d *dropLogger) dropped() {
	count := atomic.AddInt64(&d.counter, 1)
	if count%dropLogFrequency != 1 || d.logger == nil {
		return
	}
	d.logger.Warning("Queue for ", d.kind, " is full, dropping records. ", count, " dropped so far")
}
