package geometry

import "math"

// ArcCenter resolves an SVG endpoint-parameterised circular arc into its
// centre, start angle and signed sweep angle (radians). A radius too small to
// span the chord is scaled up as SVG renderers do. ok is false for coincident
// endpoints or a non-positive radius.
func ArcCenter(from, to Point2D, radius float64, largeArc, sweep bool) (center Point2D, theta1, dtheta float64, ok bool) {
	if radius <= 0 || from == to {
		return Point2D{}, 0, 0, false
	}

	// half chord in the arc's own frame (no axis rotation for circles)
	hx := (from.X - to.X) / 2
	hy := (from.Y - to.Y) / 2

	r := radius
	if lambda := (hx*hx + hy*hy) / (r * r); lambda > 1 {
		r *= math.Sqrt(lambda)
	}

	rsq := r * r
	radicand := rsq*rsq - rsq*hy*hy - rsq*hx*hx
	if radicand < 0 {
		radicand = 0
	} else {
		radicand = math.Sqrt(radicand / (rsq*hy*hy + rsq*hx*hx))
	}
	if largeArc == sweep {
		radicand = -radicand
	}

	cx := radicand * hy
	cy := -radicand * hx
	center = Point2D{X: cx + (from.X+to.X)/2, Y: cy + (from.Y+to.Y)/2}

	ux, uy := (hx-cx)/r, (hy-cy)/r
	vx, vy := (-hx-cx)/r, (-hy-cy)/r
	theta1 = vectorAngle(1, 0, ux, uy)
	dtheta = vectorAngle(ux, uy, vx, vy)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	}
	if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}
	return center, theta1, dtheta, true
}

// ArcPoints tessellates an SVG endpoint-parameterised circular arc into n
// segments (n+1 points, from and to included). A degenerate arc yields the
// straight segment from-to.
func ArcPoints(from, to Point2D, radius float64, largeArc, sweep bool, n int) []Point2D {
	center, theta1, dtheta, ok := ArcCenter(from, to, radius, largeArc, sweep)
	if !ok || n < 1 {
		return []Point2D{from, to}
	}
	r := from.Distance(center)
	pts := make([]Point2D, 0, n+1)
	pts = append(pts, from)
	for i := 1; i < n; i++ {
		a := theta1 + dtheta*float64(i)/float64(n)
		pts = append(pts, Point2D{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
	}
	return append(pts, to)
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	sign := 1.0
	if ux*vy-uy*vx < 0 {
		sign = -1
	}
	dot := math.Max(-1, math.Min(1, ux*vx+uy*vy))
	return sign * math.Acos(dot)
}
