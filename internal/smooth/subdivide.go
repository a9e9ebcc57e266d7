// Package smooth rounds sharp corners where copper tracks meet.
//
// Two engines are provided. Subdivide chamfers junctions of tracks sharing an
// exact endpoint by shortening them and joining the new ends with short
// connector tracks, repeated for a fixed number of passes so corners converge
// towards arcs. SmoothMultiWayJunctions fits circular arcs across junctions of
// three or more tracks of differing widths or offset endpoints.
package smooth

import (
	"math"

	"pcb-roundtracks/internal/junction"
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

// Stats summarises the work done by the engines.
type Stats struct {
	Groups            int
	JunctionsSmoothed int
	ConnectorsAdded   int
	JunctionsArced    int
	ArcsEmitted       int
	RegionsEmitted    int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Groups += o.Groups
	s.JunctionsSmoothed += o.JunctionsSmoothed
	s.ConnectorsAdded += o.ConnectorsAdded
	s.JunctionsArced += o.JunctionsArced
	s.ArcsEmitted += o.ArcsEmitted
	s.RegionsEmitted += o.RegionsEmitted
}

// Subdivide runs p.Iterations subdivision passes over one net/layer group and
// returns the extended track list. Tracks are shortened in place.
func Subdivide(tracks []*track.Track, p Params) ([]*track.Track, Stats) {
	var st Stats
	maxCos := math.Cos(p.MinAngle * math.Pi / 180)
	for _, t := range tracks {
		t.Generation = track.Input
	}
	for pass := 0; pass < p.Iterations; pass++ {
		added, smoothed := subdividePass(tracks, pass, maxCos, p)
		// connectors join the list only once the whole pass has been scanned
		tracks = append(tracks, added...)
		st.JunctionsSmoothed += smoothed
		st.ConnectorsAdded += len(added)
	}
	return tracks, st
}

type connector struct {
	start, end geometry.Point2D
	thin       *track.Track
}

// subdividePass scans every junction of the current tracks once and returns
// the connectors to append.
func subdividePass(tracks []*track.Track, pass int, maxCos float64, p Params) ([]*track.Track, int) {
	var pending []connector
	smoothed := 0

	for _, j := range junction.Build(tracks).Junctions(2) {
		j.SortByAngle()
		pairs := j.Pairs()
		if straightEnough(pairs, pass, maxCos) {
			continue
		}
		smoothed++

		shortest := math.Inf(1)
		for _, v := range j.Views {
			shortest = math.Min(shortest, v.Length())
		}

		// push every start point away from the junction
		for _, pr := range pairs {
			t0 := pr.First
			cosHalf := math.Sqrt(0.5 * math.Max(0, 1-t0.Dir().Dot(pr.Second.Dir())))
			r := math.Min(p.MaxRadius, math.Min(p.Radius+p.RadiusWidthMultiplier*t0.Width(), t0.Length()-p.MinLength))
			amount := math.Min(shortest/(2*cosHalf+2), r)
			if amount >= p.MinLength {
				t0.Shorten(amount)
			}
		}

		// join the new start points in a ring around the old junction
		for _, pr := range pairs {
			// two tracks form a single corner, not two
			if len(j.Views) == 2 && pr.Index != 1 {
				continue
			}
			if smoothedEarlier(pr, pass) {
				continue
			}
			thin := pr.Second.Track
			if pr.First.Width() < pr.Second.Width() {
				thin = pr.First.Track
			}
			pending = append(pending, connector{start: pr.First.Start(), end: pr.Second.Start(), thin: thin})
		}

		Logger().Debug("subdivided junction",
			"pass", pass, "x", j.Point.X, "y", j.Point.Y, "tracks", len(j.Views))
	}

	added := make([]*track.Track, 0, len(pending))
	for _, c := range pending {
		t := c.thin.Derive(c.start, c.end, track.GeneratedIn(pass))
		if t.Length() > 0 {
			added = append(added, t)
		}
	}
	return added, smoothed
}

// smoothedEarlier reports whether both tracks of the pair came out of the same
// earlier pass. Such pairs are never joined again, which keeps junctions of
// three or more tracks from subdividing recursively.
func smoothedEarlier(pr junction.Pair, pass int) bool {
	return pass > 0 && pr.First.Track.Generation == pr.Second.Track.Generation
}

// straightEnough reports whether no comparable pair bends by minAngle or more.
func straightEnough(pairs []junction.Pair, pass int, maxCos float64) bool {
	minCos := math.Inf(1)
	for _, pr := range pairs {
		if smoothedEarlier(pr, pass) {
			continue
		}
		minCos = math.Min(minCos, math.Abs(pr.First.Dir().Dot(pr.Second.Dir())))
	}
	return math.IsInf(minCos, 1) || minCos > maxCos
}
