package matcher

import (
	"go.uber.org/zap"
)

// Listener observes query attempts. It has no control over the match.
// The attempt parameter is zero-based.
type Listener[I, D any] interface {
	OnQuerySuccess(ids []I, attempt int, data []D)
	OnQueryFailure(ids []I, attempt int, err error)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs[I, D any] struct {
	Success func(ids []I, attempt int, data []D)
	Failure func(ids []I, attempt int, err error)
}

func (f ListenerFuncs[I, D]) OnQuerySuccess(ids []I, attempt int, data []D) {
	if f.Success != nil {
		f.Success(ids, attempt, data)
	}
}

func (f ListenerFuncs[I, D]) OnQueryFailure(ids []I, attempt int, err error) {
	if f.Failure != nil {
		f.Failure(ids, attempt, err)
	}
}

// LogListener logs successful attempts at debug and failed ones at warn.
type LogListener[I, D any] struct {
	Logger *zap.Logger
}

// NewLogListener returns a LogListener writing to l. A nil l discards output.
func NewLogListener[I, D any](l *zap.Logger) *LogListener[I, D] {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogListener[I, D]{Logger: l}
}

func (l *LogListener[I, D]) OnQuerySuccess(ids []I, attempt int, data []D) {
	fields := []zap.Field{
		zap.Int("identifiers", len(ids)),
		zap.Int("results", len(data)),
	}
	if attempt == 0 {
		l.Logger.Debug("Query succeeded", fields...)
		return
	}
	l.Logger.Debug("Query succeeded after retry", append(fields, zap.Int("retry", attempt))...)
}

func (l *LogListener[I, D]) OnQueryFailure(ids []I, attempt int, err error) {
	fields := []zap.Field{
		zap.Int("identifiers", len(ids)),
		zap.Error(err),
	}
	if attempt == 0 {
		l.Logger.Warn("Query failed", fields...)
		return
	}
	l.Logger.Warn("Query failed on retry", append(fields, zap.Int("retry", attempt))...)
}

// multiListener fans a notification out to several listeners.
type multiListener[I, D any] []Listener[I, D]

func (m multiListener[I, D]) OnQuerySuccess(ids []I, attempt int, data []D) {
	for _, l := range m {
		l.OnQuerySuccess(ids, attempt, data)
	}
}

func (m multiListener[I, D]) OnQueryFailure(ids []I, attempt int, err error) {
	for _, l := range m {
		l.OnQueryFailure(ids, attempt, err)
	}
}
