package geometry

import (
	"math"
)

// Line is a directed straight segment from Start to End.
type Line struct {
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
}

// NewLine creates a new Line.
func NewLine(start, end Point2D) Line {
	return Line{Start: start, End: end}
}

// Length returns the distance from Start to End.
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// Dir returns the unit direction from Start to End.
// A zero-length line has a zero direction.
func (l Line) Dir() Point2D {
	d := l.End.Sub(l.Start)
	n := d.Norm()
	if n == 0 {
		return Point2D{}
	}
	return d.Scale(1 / n)
}

// Angle returns the direction angle in radians, in (-π, π].
func (l Line) Angle() float64 {
	d := l.Dir()
	return math.Atan2(d.Y, d.X)
}

// Reversed returns the line with Start and End swapped.
func (l Line) Reversed() Line {
	return Line{Start: l.End, End: l.Start}
}

// PointOnLine returns the point at distance d from Start along the line.
func (l Line) PointOnLine(d float64) Point2D {
	return l.Start.Add(l.Dir().Scale(d))
}

// ProjectedLength returns the signed distance from Start to the projection of
// p onto the line. When bounded, the result is clamped to [0, Length].
func (l Line) ProjectedLength(p Point2D, bounded bool) float64 {
	d := p.Sub(l.Start).Dot(l.Dir())
	if bounded {
		d = math.Max(0, math.Min(d, l.Length()))
	}
	return d
}

// VecToEdge returns the offset from the centreline to the left-hand edge of a
// track of the given width running along this line.
func (l Line) VecToEdge(width float64) Point2D {
	d := l.Dir()
	return Point2D{X: -d.Y, Y: d.X}.Scale(width * 0.5)
}

// Translate returns the line moved by v.
func (l Line) Translate(v Point2D) Line {
	return Line{Start: l.Start.Add(v), End: l.End.Add(v)}
}

// MoveStartTo returns a line starting at p with the same direction and length.
func (l Line) MoveStartTo(p Point2D) Line {
	return Line{Start: p, End: p.Add(l.End.Sub(l.Start))}
}

// Intersect computes the intersection point of lines a and b. Parallel lines
// never intersect. When bounded, the point must lie on both segments;
// otherwise both lines are treated as infinite.
func Intersect(a, b Line, bounded bool) (Point2D, bool) {
	x1, y1 := a.Start.X, a.Start.Y
	x2, y2 := a.End.X, a.End.Y
	x3, y3 := b.Start.X, b.Start.Y
	x4, y4 := b.End.X, b.End.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-10 {
		// Lines are parallel
		return Point2D{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	if bounded {
		u := -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / denom
		if t < 0 || t > 1 || u < 0 || u > 1 {
			return Point2D{}, false
		}
	}

	return Point2D{
		X: x1 + t*(x2-x1),
		Y: y1 + t*(y2-y1),
	}, true
}
