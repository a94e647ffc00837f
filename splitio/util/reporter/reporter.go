package reporter

import (
	"github.com/splitio/go-toolkit/v5/logging"
)

// ErrorReporter receives non-fatal failures happening in background components
type ErrorReporter interface {
	Report(operation string, err error)
}

// LoggingReporter writes every reported failure to the logger
type LoggingReporter struct {
	logger logging.LoggerInterface
}

// NewLoggingReporter builds a reporter on top of a logger. A nil logger discards every report.
func NewLoggingReporter(logger logging.LoggerInterface) *LoggingReporter {
	return &LoggingReporter{logger: logger}
}

// Report logs the failure as an error
func (r *LoggingReporter) Report(operation string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("Error in ", operation, ": ", err.Error())
}

// ReporterFunc adapts a function into an ErrorReporter
type ReporterFunc func(operation string, err error)

// Report calls f(operation, err)
func (f ReporterFunc) Report(operation string, err error) {
	f(operation, err)
}
