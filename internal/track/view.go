package track

import (
	"sort"

	"pcb-roundtracks/pkg/geometry"
)

// View is a track seen from one of its endpoints. Start is the anchored
// endpoint and the direction points away from it. Views read the underlying
// track live, so shortening through one view is visible through every other.
type View struct {
	Track *Track
	AtEnd bool // anchored at Track.End rather than Track.Start
}

// ViewFrom returns the view of t anchored at p. When p is neither endpoint the
// view is anchored at the nearer one (Start on a tie).
func ViewFrom(t *Track, p geometry.Point2D) View {
	switch p {
	case t.Start:
		return View{Track: t}
	case t.End:
		return View{Track: t, AtEnd: true}
	}
	return View{Track: t, AtEnd: t.End.Distance(p) < t.Start.Distance(p)}
}

// Line returns the oriented segment.
func (v View) Line() geometry.Line {
	if v.AtEnd {
		return v.Track.Line.Reversed()
	}
	return v.Track.Line
}

// Start returns the anchored endpoint.
func (v View) Start() geometry.Point2D {
	if v.AtEnd {
		return v.Track.End
	}
	return v.Track.Start
}

// End returns the far endpoint.
func (v View) End() geometry.Point2D {
	if v.AtEnd {
		return v.Track.Start
	}
	return v.Track.End
}

func (v View) Dir() geometry.Point2D { return v.Line().Dir() }
func (v View) Angle() float64        { return v.Line().Angle() }
func (v View) Length() float64       { return v.Track.Length() }
func (v View) Width() float64        { return v.Track.Width }

// Shorten moves the anchored endpoint d along the view direction.
func (v View) Shorten(d float64) {
	p := v.Line().PointOnLine(d)
	if v.AtEnd {
		v.Track.End = p
	} else {
		v.Track.Start = p
	}
}

// SortByAngle sorts views by direction angle ascending. Ties keep their order.
func SortByAngle(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Angle() < views[j].Angle()
	})
}
