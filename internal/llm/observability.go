package llm

import "github.com/rs/zerolog"

// CallEvent describes one completed model call.
type CallEvent struct {
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver logs each call at debug level, failures at warn.
type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With().Str("component", "llm").Logger()}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	ev := o.logger.Debug()
	if !e.Success {
		ev = o.logger.Warn().Str("error_code", e.ErrorCode)
	}
	ev.Str("model", e.Model).
		Int64("latency_ms", e.LatencyMs).
		Int("attempts", e.Attempts).
		Bool("success", e.Success).
		Msg("llm call")
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
