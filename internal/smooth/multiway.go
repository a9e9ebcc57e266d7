package smooth

import (
	"math"

	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

// Thresholds on cos²θ, θ being half the angle between two joined tracks.
const (
	collinearCos2 = 0.001 // below: tracks continue straight through, no arc
	parallelCos2  = 0.999 // above: tracks overlap, arc would be degenerate
)

// SmoothMultiWayJunctions emits an arc across each adjacent pair of tracks at
// junctions where three or more tracks converge with unequal widths or with
// endpoints that only touch rather than coincide. Exactly coincident junctions
// of equal-width tracks are left to Subdivide.
//
// The working list is re-sorted by width, widest first, so wide tracks claim
// their junctions before narrow ones. Track geometry is only modified when
// p.MultiWayShorten is set.
func SmoothMultiWayJunctions(tracks []*track.Track, sink Sink, p Params) Stats {
	var st Stats
	track.SortByWidthDesc(tracks)
	processed := make(map[geometry.Point2D]bool)

	for _, ref := range tracks {
		for _, pt := range [2]geometry.Point2D{ref.Start, ref.End} {
			if processed[pt] {
				continue
			}
			group := gatherJunction(tracks, ref, pt)
			if len(group) < 3 {
				continue
			}
			if coincident(group, ref, pt) {
				continue
			}
			st.JunctionsArced++
			arcs, regions := arcJunction(group, ref, sink, processed, p)
			st.ArcsEmitted += arcs
			st.RegionsEmitted += regions

			Logger().Debug("arced junction",
				"x", pt.X, "y", pt.Y, "tracks", len(group), "arcs", arcs)
		}
	}
	return st
}

// gatherJunction collects the tracks whose nearer end touches ref's edge at
// pt, i.e. lies within the average of the two widths.
func gatherJunction(tracks []*track.Track, ref *track.Track, pt geometry.Point2D) []track.View {
	group := []track.View{track.ViewFrom(ref, pt)}
	for _, t2 := range tracks {
		if t2 == ref {
			continue
		}
		cand := track.ViewFrom(t2, pt)
		if cand.Start().Distance(pt) >= (ref.Width+t2.Width)*0.5 {
			continue
		}
		keep := true
		for i, member := range group {
			// member hangs off the far end of the candidate, so it is not
			// the candidate's closest approach to the junction
			if member.Start() == cand.End() {
				group = append(group[:i], group[i+1:]...)
				break
			}
			// candidate hangs off the far end of a member
			if cand.Start() == member.End() {
				keep = false
				break
			}
		}
		if keep {
			group = append(group, cand)
		}
	}
	return group
}

// coincident reports whether every track has ref's width and starts exactly at pt.
func coincident(group []track.View, ref *track.Track, pt geometry.Point2D) bool {
	for _, v := range group {
		if v.Width() != ref.Width || v.Start() != pt {
			return false
		}
	}
	return true
}

// arcJunction fits one arc per adjacent pair of the group and marks the
// junction points as processed.
func arcJunction(group []track.View, ref *track.Track, sink Sink, processed map[geometry.Point2D]bool, p Params) (arcs, regions int) {
	track.SortByAngle(group)
	n := len(group)
	shorten := make([]float64, n)
	for i := range shorten {
		shorten[i] = math.Inf(1)
	}

	var segments []Arc
	for i := range group {
		prev := (i + n - 1) % n
		t0, t1 := group[prev], group[i]
		w := math.Min(t0.Width(), t1.Width())

		// inner edges: t0's side facing t1 and t1's side facing t0, each
		// narrowed to the thinner width
		line0, line1 := t0.Line(), t1.Line()
		edge0 := line0.Translate(line0.VecToEdge(t0.Width() - w))
		edge1 := line1.Translate(line1.VecToEdge(t1.Width() - w).Scale(-1))
		if corner, ok := geometry.Intersect(edge0, edge1, false); ok {
			edge0 = edge0.MoveStartTo(corner)
			edge1 = edge1.MoveStartTo(corner)
		}

		r := 2 * math.Min(p.MaxRadius, p.Radius+w*p.RadiusWidthMultiplier)
		r = math.Min(r, math.Min(edge0.ProjectedLength(t0.End(), true), edge1.ProjectedLength(t1.End(), true)))

		var l0, l1 float64
		if r <= 0 {
			r = 0
			shorten[prev], shorten[i] = 0, 0
		} else {
			l0 = line0.ProjectedLength(edge0.PointOnLine(r), false)
			shorten[prev] = math.Min(shorten[prev], l0)
			l1 = line1.ProjectedLength(edge1.PointOnLine(r), false)
			shorten[i] = math.Min(shorten[i], l1)
		}

		if !(l0 > 0 && l0 <= t0.Length() && l1 > 0 && l1 <= t1.Length()) {
			continue
		}

		seg := Arc{
			Width: w,
			Layer: ref.Layer,
			Net:   ref.Net,
			From:  edge0.PointOnLine(r),
			To:    edge1.PointOnLine(r),
		}
		cos2 := 0.5 + 0.5*edge0.Dir().Dot(edge1.Dir())
		if cos2 > collinearCos2 {
			seg.Radius = tangentArcRadius(r, cos2)
		} else {
			seg.Straight = true
		}
		segments = append(segments, seg)

		switch {
		case seg.Straight:
			shorten[prev], shorten[i] = 0, 0
			sink.AddArc(seg)
			arcs++
		case cos2 < parallelCos2:
			sink.AddArc(seg)
			arcs++
		default:
			shorten[prev], shorten[i] = 0, 0
		}
	}

	if p.FillRegions && len(segments) > 1 {
		sink.AddRegion(Region{Layer: ref.Layer, Net: ref.Net, Segments: segments})
		regions++
	}

	// every member's near end belongs to this junction, even when its
	// shortening was zeroed, so no later reference track arcs it again
	for i, v := range group {
		processed[v.Start()] = true
		if s := shorten[i]; p.MultiWayShorten && s > 0 && s <= v.Length() {
			v.Shorten(s)
		}
	}
	return arcs, regions
}

// tangentArcRadius returns the radius of the circle tangent to two lines at
// distance r from their intersection, where cos2 is cos² of half the angle
// between the lines' directions.
func tangentArcRadius(r, cos2 float64) float64 {
	return math.Sqrt(r * r * (1 - cos2) / cos2)
}
