package geo

import (
	"math"
	"testing"
)

func TestBezierEndpoints(t *testing.T) {
	c := CubicBezier{
		P0: Pt(0, 0),
		P1: Pt(50, 100),
		P2: Pt(150, 100),
		P3: Pt(200, 0),
	}
	if c.Evaluate(0).Distance(c.P0) > 0.01 {
		t.Errorf("curve at t=0 should be P0, got %v", c.Evaluate(0))
	}
	if c.Evaluate(1).Distance(c.P3) > 0.01 {
		t.Errorf("curve at t=1 should be P3, got %v", c.Evaluate(1))
	}
}

func TestStraightBezierLength(t *testing.T) {
	c := StraightBezier(Pt(0, 0), Pt(300, 0))
	length := c.ArcLength()
	if math.Abs(length-300) > 1.0 {
		t.Errorf("expected arc length ~300, got %f", length)
	}
	// Midpoint of a straight curve sits on the chord midpoint.
	mid := c.Evaluate(0.5)
	if mid.Distance(Pt(150, 0)) > 0.5 {
		t.Errorf("expected midpoint (150,0), got %v", mid)
	}
}

func TestBezierTangentDirection(t *testing.T) {
	c := StraightBezier(Pt(0, 0), Pt(100, 0))
	tan := c.Tangent(0.5).Normalize()
	if !approxEqual(tan.X, 1, tolerance) || !approxEqual(tan.Y, 0, tolerance) {
		t.Errorf("expected tangent (1,0), got %v", tan)
	}
}

func TestBezierSampleUniformCount(t *testing.T) {
	c := CubicBezier{
		P0: Pt(0, 0),
		P1: Pt(0, 100),
		P2: Pt(100, 100),
		P3: Pt(100, 0),
	}
	pts := c.SampleUniform(9)
	if len(pts) != 9 {
		t.Fatalf("expected 9 samples, got %d", len(pts))
	}
	if pts[0].Distance(c.P0) > 0.01 || pts[8].Distance(c.P3) > 0.01 {
		t.Error("uniform samples should include both endpoints")
	}
}

func TestBezierSampleUniformSpacing(t *testing.T) {
	// Asymmetric control points bunch parameter-space samples; arc length
	// samples should still be nearly evenly spaced.
	c := CubicBezier{
		P0: Pt(0, 0),
		P1: Pt(10, 0),
		P2: Pt(20, 0),
		P3: Pt(400, 0),
	}
	pts := c.SampleUniform(17)

	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	mean := total / float64(len(pts)-1)

	for i := 1; i < len(pts); i++ {
		step := pts[i-1].Distance(pts[i])
		if math.Abs(step-mean) > mean*0.1 {
			t.Errorf("sample step %d is %.2f, mean %.2f (>10%% off)", i, step, mean)
		}
	}
}

func TestBezierSampleUniformMinimum(t *testing.T) {
	c := StraightBezier(Pt(0, 0), Pt(10, 10))
	pts := c.SampleUniform(0)
	if len(pts) != 2 {
		t.Fatalf("expected clamp to 2 samples, got %d", len(pts))
	}
}
