package sim

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return t0 }

// constSource returns v for every float draw and n%k for IntN.
type constSource struct {
	v float64
	n int
}

func (c constSource) Float64() float64 { return c.v }
func (c constSource) IntN(k int) int  { return c.n % k }

func newTestDesk(t *testing.T, opts ...Option) *Desk {
	t.Helper()
	base := []Option{WithSeed(42), WithClock(fixedClock)}
	d, err := NewDesk(append(base, opts...)...)
	require.NoError(t, err)
	return d
}

// fingerprint serializes a snapshot so later comparisons catch any write
// into shared backing arrays.
func fingerprint(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func curveValues(c Curve) []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.Value
	}
	return out
}
