package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Progress tests live in the package (not _test) because set and reset are
// unexported: only the Runner may move progress.

func TestProgress_monotonicWithinRun(t *testing.T) {
	var seen []float64
	p := NewProgress(func(v float64) { seen = append(seen, v) })

	p.set(0.1)
	p.set(0.3)
	p.set(0.2) // regression, dropped
	p.set(0.3) // no-op, dropped
	p.set(0.9)

	assert.Equal(t, []float64{0.1, 0.3, 0.9}, seen)
	assert.Equal(t, 0.9, p.Value())
}

func TestProgress_clampsToOne(t *testing.T) {
	p := NewProgress(nil)
	p.set(1.5)
	assert.Equal(t, 1.0, p.Value())
}

func TestProgress_resetStartsNewRun(t *testing.T) {
	var seen []float64
	p := NewProgress(func(v float64) { seen = append(seen, v) })

	p.set(0.8)
	p.reset()
	p.set(0.2)

	assert.Equal(t, []float64{0.8, 0, 0.2}, seen)
	assert.Equal(t, 0.2, p.Value())
}

func TestProgress_nilCallback(t *testing.T) {
	p := NewProgress(nil)
	p.set(0.5)
	p.reset()
	assert.Equal(t, 0.0, p.Value())
}
