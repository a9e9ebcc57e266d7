package smooth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-roundtracks/internal/junction"
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

const tol = 1e-9

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func tr(x1, y1, x2, y2, width float64) *track.Track {
	return &track.Track{
		Line:  geometry.NewLine(pt(x1, y1), pt(x2, y2)),
		Width: width,
		Layer: "1",
		Net:   "VCC",
	}
}

// boardParams mirrors the defaults after conversion to 10-mil board units.
func boardParams(iterations int) Params {
	return Params{
		Radius:                0.5,
		RadiusWidthMultiplier: 0.5,
		MaxRadius:             3,
		MinAngle:              360.0 / 64.0,
		MinLength:             0.1,
		Iterations:            iterations,
	}
}

func snapshot(tracks []*track.Track) []geometry.Line {
	out := make([]geometry.Line, len(tracks))
	for i, t := range tracks {
		out[i] = t.Line
	}
	return out
}

func countGeneration(tracks []*track.Track, g track.Generation) int {
	n := 0
	for _, t := range tracks {
		if t.Generation == g {
			n++
		}
	}
	return n
}

func TestSubdivideCollinearTracksUntouched(t *testing.T) {
	tracks := []*track.Track{tr(-10, 0, 0, 0, 1), tr(0, 0, 10, 0, 1)}
	before := snapshot(tracks)

	out, st := Subdivide(tracks, boardParams(4))

	require.Len(t, out, 2)
	assert.Equal(t, before, snapshot(out))
	assert.Zero(t, st.ConnectorsAdded)
	assert.Zero(t, st.JunctionsSmoothed)
}

func TestSubdivideShallowBendUntouched(t *testing.T) {
	a := 178.0 * math.Pi / 180
	tracks := []*track.Track{
		tr(0, 0, 10, 0, 1),
		tr(0, 0, 10*math.Cos(a), 10*math.Sin(a), 1),
	}
	before := snapshot(tracks)

	out, st := Subdivide(tracks, boardParams(1))

	assert.Equal(t, before, snapshot(out))
	assert.Zero(t, st.ConnectorsAdded)
}

func TestSubdivideRightAngle(t *testing.T) {
	a := tr(0, 0, 10, 0, 1)
	b := tr(0, 0, 0, 10, 1)

	out, st := Subdivide([]*track.Track{a, b}, boardParams(1))

	// amount = min(10 / (2*cos45 + 2), min(3, 0.5+0.5*1, 10-0.1)) = 1
	require.Len(t, out, 3)
	assert.Equal(t, 1, st.ConnectorsAdded)
	assert.Equal(t, 1, st.JunctionsSmoothed)

	assert.InDelta(t, 1.0, a.Start.X, tol)
	assert.InDelta(t, 0.0, a.Start.Y, tol)
	assert.InDelta(t, 9.0, a.Length(), tol)
	assert.InDelta(t, 1.0, b.Start.Y, tol)
	assert.InDelta(t, 9.0, b.Length(), tol)

	c := out[2]
	assert.Equal(t, a.Start, c.Start)
	assert.Equal(t, b.Start, c.End)
	assert.Equal(t, track.GeneratedIn(0), c.Generation)
	assert.Equal(t, 1.0, c.Width)
	assert.Equal(t, a.Key(), c.Key())
}

func TestSubdivideConnectorTakesThinnerWidth(t *testing.T) {
	a := tr(0, 0, 10, 0, 2)
	b := tr(0, 0, 0, 10, 1)

	out, _ := Subdivide([]*track.Track{a, b}, boardParams(1))

	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[2].Width)
	// the wider track takes a larger radius: 0.5 + 0.5*2
	assert.InDelta(t, 1.5, a.Start.X, tol)
	assert.InDelta(t, 1.0, b.Start.Y, tol)
}

func TestSubdivideNWayAddsOneConnectorPerPair(t *testing.T) {
	for _, k := range []int{3, 4, 5} {
		var tracks []*track.Track
		for i := 0; i < k; i++ {
			a := 2 * math.Pi * float64(i) / float64(k)
			tracks = append(tracks, tr(0, 0, 10*math.Cos(a), 10*math.Sin(a), 1))
		}

		out, st := Subdivide(tracks, boardParams(1))

		assert.Equal(t, k, st.ConnectorsAdded, "k=%d", k)
		assert.Len(t, out, 2*k, "k=%d", k)
	}
}

func TestSubdivideFractalSuppression(t *testing.T) {
	var tracks []*track.Track
	for i := 0; i < 3; i++ {
		a := 2 * math.Pi * float64(i) / 3
		tracks = append(tracks, tr(0, 0, 10*math.Cos(a), 10*math.Sin(a), 1))
	}

	out, st := Subdivide(tracks, boardParams(2))

	// pass 0 rings the junction with 3 connectors; in pass 1 each shortened
	// start meets two of them, and the connector-connector pair is skipped
	assert.Equal(t, 3, countGeneration(out, track.GeneratedIn(0)))
	assert.Equal(t, 6, countGeneration(out, track.GeneratedIn(1)))
	assert.Equal(t, 9, st.ConnectorsAdded)

	firstRing := make(map[geometry.Point2D]int)
	for _, c := range out {
		if c.Generation == track.GeneratedIn(0) {
			firstRing[c.Start]++
			firstRing[c.End]++
		}
	}
	for _, c := range out {
		if c.Generation != track.GeneratedIn(1) {
			continue
		}
		assert.False(t, firstRing[c.Start] > 0 && firstRing[c.End] > 0,
			"pass-1 connector joins two pass-0 connectors")
	}
}

func TestSubdividePassDefersInsertion(t *testing.T) {
	a := tr(0, 0, 10, 0, 1)
	b := tr(0, 0, 0, 10, 1)
	tracks := []*track.Track{a, b}
	before := junction.Build(tracks)

	added, smoothed := subdividePass(tracks, 0, math.Cos(boardParams(1).MinAngle*math.Pi/180), boardParams(1))

	require.Len(t, tracks, 2, "working list untouched during the pass")
	require.Len(t, added, 1)
	assert.Equal(t, 1, smoothed)
	assert.Equal(t, 2, before.Degree(pt(0, 0)))
	assert.Zero(t, before.Degree(added[0].Start), "connector not in the pass snapshot")
}

func TestSubdivideDropsZeroLengthConnector(t *testing.T) {
	// too short to shorten: both starts stay on the junction
	tracks := []*track.Track{tr(0, 0, 0.15, 0, 1), tr(0, 0, 0, 0.15, 1)}

	out, st := Subdivide(tracks, boardParams(1))

	assert.Len(t, out, 2)
	assert.Zero(t, st.ConnectorsAdded)
	assert.Equal(t, pt(0, 0), out[0].Start)
}

func TestSubdivideIgnoresZeroLengthTracks(t *testing.T) {
	zero := tr(0, 0, 0, 0, 1)
	tracks := []*track.Track{tr(0, 0, 10, 0, 1), zero, tr(-10, 0, 0, 0, 1)}

	out, st := Subdivide(tracks, boardParams(2))

	assert.Len(t, out, 3)
	assert.Zero(t, st.ConnectorsAdded)
	assert.Equal(t, pt(0, 0), zero.Start)
	assert.Equal(t, pt(0, 0), zero.End)
}

func TestSubdivideZeroIterations(t *testing.T) {
	tracks := []*track.Track{tr(0, 0, 10, 0, 1), tr(0, 0, 0, 10, 1)}
	before := snapshot(tracks)

	out, _ := Subdivide(tracks, boardParams(0))

	assert.Equal(t, before, snapshot(out))
}

func TestSubdivideResetsGeneration(t *testing.T) {
	a := tr(0, 0, 10, 0, 1)
	a.Generation = track.GeneratedIn(3)
	out, _ := Subdivide([]*track.Track{a}, boardParams(1))
	assert.Equal(t, track.Input, out[0].Generation)
}

func TestSubdivideConvergesOverPasses(t *testing.T) {
	tracks := []*track.Track{tr(0, 0, 20, 0, 1), tr(0, 0, 0, 20, 1)}

	out, _ := Subdivide(tracks, boardParams(4))

	// every remaining junction bends by less than 90 degrees and no track
	// crosses the original corner
	for _, j := range junction.Build(out).Junctions(2) {
		assert.Less(t, j.MaxBend(), 90.0-1e-6)
	}
	for _, tk := range out {
		assert.GreaterOrEqual(t, tk.Start.X+tk.Start.Y, 0.0)
		assert.GreaterOrEqual(t, tk.End.X+tk.End.Y, 0.0)
	}
	assert.Greater(t, len(out), 3)
}
