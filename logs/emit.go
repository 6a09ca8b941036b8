package logs

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/miruken-go/resource"
)

// Emit is a resource.Factory logging the creation of instances.
type Emit struct {
	next      resource.Factory
	logger    logr.Logger
	verbosity int
}

const durationFormat = "15:04:05.000000" // microseconds

// NewEmit decorates next to log every creation at verbosity.
// A nil next uses resource.DefaultFactory.
func NewEmit(
	next      resource.Factory,
	logger    logr.Logger,
	verbosity int,
) *Emit {
	if next == nil {
		next = resource.DefaultFactory{}
	}
	return &Emit{next, logger, verbosity}
}

func (e *Emit) Create(
	class *resource.Class,
	call  *resource.Call,
) (*resource.Instance, error) {
	logger := ClassLogger(e.logger, class).V(e.verbosity)
	if !logger.Enabled() {
		return e.next.Create(class, call)
	}
	if class == nil {
		panic("class cannot be nil")
	}
	if ctor := class.Constructor(); ctor != nil {
		logger.Info("creating",
			"constructor", ctor.Name(),
			"params", ctor.NumParams())
	}
	start := time.Now()
	instance, err := e.next.Create(class, call)
	if err != nil {
		logError(err, start, logger)
		return nil, err
	}
	logSuccess(start, logger)
	return instance, nil
}

func logSuccess(
	start  time.Time,
	logger logr.Logger,
) {
	logger.Info("created", "duration", formatDuration(time.Since(start)))
}

func logError(
	err    error,
	start  time.Time,
	logger logr.Logger,
) {
	logger.Error(err, "failed", "duration", formatDuration(time.Since(start)))
}

func formatDuration(d time.Duration) string {
	return time.Time{}.Add(d).Format(durationFormat)
}
