package fractal

import (
	"time"

	"go.uber.org/zap"
)

// tickStats holds per-tick timings. Only populated in debug mode.
type tickStats struct {
	root   time.Duration
	levels time.Duration
	pack   time.Duration
	parts  int
}

// frameBudget is the tick duration above which debug mode warns.
const frameBudget = time.Second / 60

// debugLog writes the last tick's timings at debug level, or a warning when
// the tick blew the frame budget.
func (f *Fractal) debugLog(stats tickStats) {
	if !f.debug {
		return
	}
	total := stats.root + stats.levels + stats.pack
	fields := []zap.Field{
		zap.Uint64("tick", f.ticks),
		zap.Duration("root", stats.root),
		zap.Duration("levels", stats.levels),
		zap.Duration("pack", stats.pack),
		zap.Duration("total", total),
		zap.Int("parts", stats.parts),
	}
	if total > frameBudget {
		f.logger.Warn("fractal tick over frame budget", append(fields, zap.Duration("budget", frameBudget))...)
		return
	}
	f.logger.Debug("fractal tick", fields...)
}
