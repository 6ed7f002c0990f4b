package modkit

import (
	"timeslider/internal/platform/config"
	"timeslider/internal/platform/logger"
	"timeslider/internal/platform/sched"

	"github.com/prometheus/client_golang/prometheus"
)

// Deps holds core dependencies passed to modules
// zero values are safe: modules fall back to the root logger, an unregistered
// metrics set and their own scheduler as they see fit
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	Metrics prometheus.Registerer
	Sched   sched.Scheduler
}

// Logger returns a component logger derived from Log, or the named root logger
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
