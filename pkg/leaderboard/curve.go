package leaderboard

import "fmt"

// Curve is a quadratic Bézier curve defined by three control points.
type Curve struct {
	P0, P1, P2 Point
}

// SkiRamp is the fixed ramp on the 1000×560 canvas: the start of the run,
// the takeoff control point, and the landing zone.
var SkiRamp = Curve{
	P0: Point{X: 90, Y: 380},
	P1: Point{X: 350, Y: 120},
	P2: Point{X: 920, Y: 260},
}

// At evaluates the curve at parameter t.
// At(0) is exactly P0 and At(1) is exactly P2.
func (c Curve) At(t float64) Point {
	u := 1 - t
	a, b, d := u*u, 2*u*t, t*t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y,
	}
}

// Path returns the SVG path data for the curve ("M x0 y0 Q x1 y1 x2 y2").
func (c Curve) Path() string {
	return fmt.Sprintf("M %g %g Q %g %g %g %g", c.P0.X, c.P0.Y, c.P1.X, c.P1.Y, c.P2.X, c.P2.Y)
}
