package geo

// Polyline is an ordered sequence of points forming a path.
type Polyline struct {
	Points []Point2D
}

// NewPolyline creates a polyline from a list of points.
func NewPolyline(pts ...Point2D) Polyline {
	return Polyline{Points: pts}
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	return total
}

// PointAt returns the point at fraction t in [0,1] along the polyline
// length.
func (pl Polyline) PointAt(t float64) Point2D {
	if len(pl.Points) == 0 {
		return Point2D{}
	}
	if len(pl.Points) == 1 || t <= 0 {
		return pl.Points[0]
	}
	if t >= 1 {
		return pl.Points[len(pl.Points)-1]
	}

	target := t * pl.Length()
	walked := 0.0
	for i := 1; i < len(pl.Points); i++ {
		segLen := pl.Points[i-1].Distance(pl.Points[i])
		if walked+segLen >= target {
			frac := (target - walked) / segLen
			return pl.Points[i-1].Lerp(pl.Points[i], frac)
		}
		walked += segLen
	}
	return pl.Points[len(pl.Points)-1]
}

// CatmullRomSpline samples a Catmull-Rom spline through the control points,
// samplesPerSegment points per segment. Tension 0.5 is the standard
// centripetal spline. The curve passes through every control point.
func CatmullRomSpline(controlPoints []Point2D, samplesPerSegment int, tension float64) Polyline {
	n := len(controlPoints)
	if n == 0 {
		return Polyline{}
	}
	if n == 1 {
		return NewPolyline(controlPoints[0])
	}
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}
	if n == 2 {
		pts := make([]Point2D, samplesPerSegment+1)
		for i := 0; i <= samplesPerSegment; i++ {
			pts[i] = controlPoints[0].Lerp(controlPoints[1], float64(i)/float64(samplesPerSegment))
		}
		return Polyline{Points: pts}
	}

	// Phantom endpoints reflect the first and last segments so the curve
	// starts and ends on the real control points.
	extended := make([]Point2D, n+2)
	extended[0] = controlPoints[0].Add(controlPoints[0].Sub(controlPoints[1]))
	copy(extended[1:], controlPoints)
	extended[n+1] = controlPoints[n-1].Add(controlPoints[n-1].Sub(controlPoints[n-2]))

	var pts []Point2D
	for i := 1; i < n; i++ {
		p0, p1, p2, p3 := extended[i-1], extended[i], extended[i+1], extended[i+2]
		for j := 0; j < samplesPerSegment; j++ {
			t := float64(j) / float64(samplesPerSegment)
			pts = append(pts, catmullRomPoint(p0, p1, p2, p3, t, tension))
		}
	}
	pts = append(pts, controlPoints[n-1])
	return Polyline{Points: pts}
}

func catmullRomPoint(p0, p1, p2, p3 Point2D, t, s float64) Point2D {
	t2 := t * t
	t3 := t2 * t

	x := 0.5 * ((-s*p0.X+(2-s)*p1.X+(s-2)*p2.X+s*p3.X)*t3 +
		(2*s*p0.X+(s-3)*p1.X+(3-2*s)*p2.X-s*p3.X)*t2 +
		(-s*p0.X+s*p2.X)*t +
		2*p1.X)

	y := 0.5 * ((-s*p0.Y+(2-s)*p1.Y+(s-2)*p2.Y+s*p3.Y)*t3 +
		(2*s*p0.Y+(s-3)*p1.Y+(3-2*s)*p2.Y-s*p3.Y)*t2 +
		(-s*p0.Y+s*p2.Y)*t +
		2*p1.Y)

	return Point2D{X: x, Y: y}
}
