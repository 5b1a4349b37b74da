package quality

// TraceEvent describes the evaluation of one window. Events exist for
// observability only; the engine's behavior never depends on them.
type TraceEvent struct {
	Window    int
	Tier      Tier
	MSQI      float64
	KSQI      float64
	HeartRate float64
	SDNN      float64
	// Note carries a short reason for short-circuit outcomes, e.g. a window
	// with too few peaks or a recovered evaluation failure.
	Note string
}

// TraceFunc receives one event per evaluated window. A nil TraceFunc keeps
// the engine silent.
type TraceFunc func(TraceEvent)

func (e *Engine) emit(ev TraceEvent) {
	if e.trace != nil {
		e.trace(ev)
	}
}
