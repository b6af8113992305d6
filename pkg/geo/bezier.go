package geo

import "sort"

// CubicBezier is a cubic Bezier curve defined by four control points.
// P0 and P3 are the endpoints, P1 and P2 shape the curve.
type CubicBezier struct {
	P0 Point2D `json:"p0"`
	P1 Point2D `json:"p1"`
	P2 Point2D `json:"p2"`
	P3 Point2D `json:"p3"`
}

// StraightBezier returns a cubic Bezier that traces the straight line from a
// to b, with control points placed at the thirds of the chord.
func StraightBezier(a, b Point2D) CubicBezier {
	return CubicBezier{
		P0: a,
		P1: a.Lerp(b, 1.0/3.0),
		P2: a.Lerp(b, 2.0/3.0),
		P3: b,
	}
}

// Evaluate returns the point on the curve at parameter t in [0,1].
func (c CubicBezier) Evaluate(t float64) Point2D {
	u := 1 - t
	uu := u * u
	tt := t * t
	p := c.P0.Scale(uu * u)
	p = p.Add(c.P1.Scale(3 * uu * t))
	p = p.Add(c.P2.Scale(3 * u * tt))
	p = p.Add(c.P3.Scale(tt * t))
	return p
}

// Tangent returns the (unnormalized) derivative of the curve at t.
func (c CubicBezier) Tangent(t float64) Point2D {
	u := 1 - t
	p := c.P1.Sub(c.P0).Scale(3 * u * u)
	p = p.Add(c.P2.Sub(c.P1).Scale(6 * u * t))
	p = p.Add(c.P3.Sub(c.P2).Scale(3 * t * t))
	return p
}

// arcLengthSteps is the chord count used for arc length integration.
const arcLengthSteps = 64

// ArcLength approximates the curve length by summing chord lengths.
func (c CubicBezier) ArcLength() float64 {
	total := 0.0
	prev := c.P0
	for i := 1; i <= arcLengthSteps; i++ {
		t := float64(i) / arcLengthSteps
		pt := c.Evaluate(t)
		total += prev.Distance(pt)
		prev = pt
	}
	return total
}

// lutSteps is the resolution of the arc length table used for uniform sampling.
const lutSteps = 128

// SampleUniform returns count points spaced uniformly by arc length along the
// curve, endpoints included. Parameter-space sampling would bunch points where
// the control polygon is tight; the lookup table inverts arc length to t.
func (c CubicBezier) SampleUniform(count int) []Point2D {
	if count < 2 {
		count = 2
	}

	// Cumulative chord lengths at lutSteps+1 parameter values.
	lut := make([]float64, lutSteps+1)
	prev := c.P0
	for i := 1; i <= lutSteps; i++ {
		t := float64(i) / lutSteps
		pt := c.Evaluate(t)
		lut[i] = lut[i-1] + prev.Distance(pt)
		prev = pt
	}
	total := lut[lutSteps]

	pts := make([]Point2D, count)
	pts[0] = c.P0
	pts[count-1] = c.P3
	for i := 1; i < count-1; i++ {
		target := total * float64(i) / float64(count-1)
		// First LUT entry at or beyond the target length.
		j := sort.SearchFloat64s(lut, target)
		if j <= 0 {
			pts[i] = c.P0
			continue
		}
		if j > lutSteps {
			j = lutSteps
		}
		// Interpolate t between the bracketing LUT entries.
		span := lut[j] - lut[j-1]
		frac := 0.0
		if span > 1e-12 {
			frac = (target - lut[j-1]) / span
		}
		t := (float64(j-1) + frac) / lutSteps
		pts[i] = c.Evaluate(t)
	}
	return pts
}
