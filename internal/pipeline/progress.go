package pipeline

import "sync"

// Progress is the observable completion value for one pipeline run, always
// in [0.0, 1.0]. Within a run it only moves forward: attempts to set a lower
// value are ignored, so observers can rely on monotonicity no matter how
// stage callbacks interleave. Reset is called only by the driver at the
// start of a new run.
type Progress struct {
	mu       sync.Mutex
	value    float64
	onChange func(float64)
}

// NewProgress constructs a Progress. onChange, if non-nil, is invoked after
// every effective change, from the pipeline's single driver goroutine.
// Callers that feed a UI are responsible for hopping to their main context.
func NewProgress(onChange func(float64)) *Progress {
	return &Progress{onChange: onChange}
}

// Value returns the current progress.
func (p *Progress) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// set advances progress to v, clamped to [current, 1.0]. Regressions are
// dropped silently rather than reported: a late-arriving lower value is a
// stage bookkeeping artifact, not an event the UI should see.
func (p *Progress) set(v float64) {
	p.mu.Lock()
	if v > 1.0 {
		v = 1.0
	}
	if v <= p.value {
		p.mu.Unlock()
		return
	}
	p.value = v
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(v)
	}
}

// reset returns progress to zero for a fresh run.
func (p *Progress) reset() {
	p.mu.Lock()
	p.value = 0
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(0)
	}
}
