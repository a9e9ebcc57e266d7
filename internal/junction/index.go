// Package junction groups tracks by shared endpoint coordinates.
package junction

import (
	"math"

	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

// Index maps exact endpoint coordinates to the tracks ending there.
// It is a snapshot: tracks appended to the working list after Build are not
// visible, and endpoints that move after Build are not re-keyed.
type Index struct {
	points  []geometry.Point2D
	members map[geometry.Point2D][]*track.Track
}

// Build registers every track of positive length under both of its endpoints.
func Build(tracks []*track.Track) *Index {
	ix := &Index{members: make(map[geometry.Point2D][]*track.Track)}
	for _, t := range tracks {
		if t.Length() <= 0 {
			continue
		}
		ix.add(t.Start, t)
		ix.add(t.End, t)
	}
	return ix
}

func (ix *Index) add(p geometry.Point2D, t *track.Track) {
	if _, ok := ix.members[p]; !ok {
		ix.points = append(ix.points, p)
	}
	ix.members[p] = append(ix.members[p], t)
}

// Len returns the number of distinct endpoints.
func (ix *Index) Len() int {
	return len(ix.points)
}

// Degree returns how many tracks end at p.
func (ix *Index) Degree(p geometry.Point2D) int {
	return len(ix.members[p])
}

// Junctions returns every point shared by at least minDegree tracks, in the
// order the points were first registered.
func (ix *Index) Junctions(minDegree int) []Junction {
	var out []Junction
	for _, p := range ix.points {
		tracks := ix.members[p]
		if len(tracks) < minDegree {
			continue
		}
		views := make([]track.View, len(tracks))
		for i, t := range tracks {
			views[i] = track.ViewFrom(t, p)
		}
		out = append(out, Junction{Point: p, Views: views})
	}
	return out
}

// Junction is the set of tracks meeting at one point, each viewed outward.
type Junction struct {
	Point geometry.Point2D
	Views []track.View
}

// SortByAngle orders the views radially around the junction.
func (j Junction) SortByAngle() {
	track.SortByAngle(j.Views)
}

// Pair is two cyclically adjacent views; Index is the position of Second.
type Pair struct {
	Index         int
	First, Second track.View
}

// Pairs returns the cyclically adjacent pairs (views[i-1], views[i]); pair 0
// joins the last view to the first.
func (j Junction) Pairs() []Pair {
	n := len(j.Views)
	pairs := make([]Pair, n)
	for i := range j.Views {
		pairs[i] = Pair{Index: i, First: j.Views[(i+n-1)%n], Second: j.Views[i]}
	}
	return pairs
}

// MaxBend returns, in degrees within [0, 90], the largest deviation from a
// straight line between adjacent tracks. A junction whose MaxBend stays below
// the smoothing minimum angle is left alone.
func (j Junction) MaxBend() float64 {
	if len(j.Views) < 2 {
		return 0
	}
	minCos := 1.0
	for _, p := range j.Pairs() {
		minCos = math.Min(minCos, math.Abs(p.First.Dir().Dot(p.Second.Dir())))
	}
	return math.Acos(minCos) * 180 / math.Pi
}
