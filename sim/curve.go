package sim

import "time"

// EquityPoint is one labelled sample on a curve.
type EquityPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Curve is a bounded time series. Values handed out in a snapshot are never
// written again; advance always works on a copy.
type Curve []EquityPoint

const curveLabelLayout = "15:04:05"

// Last returns the newest point. ok is false on an empty curve.
func (c Curve) Last() (p EquityPoint, ok bool) {
	if len(c) == 0 {
		return EquityPoint{}, false
	}
	return c[len(c)-1], true
}

// advance returns a copy of c whose newest value has moved by delta. When
// appendPoint is set the move is recorded as a new point labelled at now,
// otherwise the last point is rewritten. The result holds at most max points,
// dropping the oldest.
func (c Curve) advance(delta float64, appendPoint bool, now time.Time, max int) Curve {
	last, ok := c.Last()
	if !ok {
		return Curve{{Time: now.Format(curveLabelLayout), Value: delta}}
	}

	if !appendPoint {
		out := make(Curve, len(c))
		copy(out, c)
		out[len(out)-1] = EquityPoint{Time: last.Time, Value: last.Value + delta}
		return out
	}

	start := 0
	if max > 0 && len(c)+1 > max {
		start = len(c) + 1 - max
	}
	out := make(Curve, 0, len(c)+1-start)
	out = append(out, c[start:]...)
	return append(out, EquityPoint{Time: now.Format(curveLabelLayout), Value: last.Value + delta})
}

// seedCurve builds an n-point curve labelled 10:00, 10:01, ...
func seedCurve(n int, value func(i int) float64) Curve {
	base := time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC)
	out := make(Curve, n)
	for i := range out {
		out[i] = EquityPoint{
			Time:  base.Add(time.Duration(i) * time.Minute).Format("15:04"),
			Value: value(i),
		}
	}
	return out
}
