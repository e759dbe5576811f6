package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveLastEmpty(t *testing.T) {
	t.Parallel()

	_, ok := Curve{}.Last()
	assert.False(t, ok)

	var nilCurve Curve
	_, ok = nilCurve.Last()
	assert.False(t, ok)
}

func TestCurveAdvanceUpdatesLastPointOnCopy(t *testing.T) {
	t.Parallel()

	c := Curve{{Time: "10:00", Value: 1}, {Time: "10:01", Value: 2}}
	got := c.advance(0.5, false, t0, 60)

	require.Len(t, got, 2)
	assert.Equal(t, EquityPoint{Time: "10:01", Value: 2.5}, got[1])
	assert.Equal(t, 2.0, c[1].Value, "original curve must not change")
}

func TestCurveAdvanceAppends(t *testing.T) {
	t.Parallel()

	c := Curve{{Time: "10:00", Value: 1}}
	got := c.advance(-0.25, true, t0, 60)

	require.Len(t, got, 2)
	assert.Equal(t, EquityPoint{Time: "09:30:00", Value: 0.75}, got[1])
	assert.Len(t, c, 1)
}

func TestCurveAdvanceDropsOldestAtCap(t *testing.T) {
	t.Parallel()

	c := seedCurve(3, func(i int) float64 { return float64(i) })
	got := c.advance(1, true, t0, 3)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2, 3}, curveValues(got))
	assert.Equal(t, []float64{0, 1, 2}, curveValues(c))
}

func TestCurveAdvanceEmpty(t *testing.T) {
	t.Parallel()

	got := Curve(nil).advance(4, false, t0, 60)
	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].Value)
}

func TestSeedCurveLabels(t *testing.T) {
	t.Parallel()

	c := seedCurve(50, func(int) float64 { return 0 })
	require.Len(t, c, 50)
	assert.Equal(t, "10:00", c[0].Time)
	assert.Equal(t, "10:09", c[9].Time)
	assert.Equal(t, "10:49", c[49].Time)
}
