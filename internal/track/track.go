// Package track provides the copper track model shared by the smoothing engines.
package track

import (
	"fmt"
	"sort"

	"pcb-roundtracks/pkg/geometry"
)

// Generation records which smoothing pass created a track.
// Input tracks are generation 0; tracks synthesized during pass n are n+1.
type Generation int

// Input is the generation of tracks read from the board.
const Input Generation = 0

// GeneratedIn returns the generation of tracks created during the given pass.
func GeneratedIn(pass int) Generation {
	return Generation(pass + 1)
}

// IsInput reports whether the track came from the board.
func (g Generation) IsInput() bool {
	return g == Input
}

func (g Generation) String() string {
	if g == Input {
		return "input"
	}
	return fmt.Sprintf("pass-%d", int(g)-1)
}

// Track is a straight copper segment on one net and layer.
type Track struct {
	geometry.Line
	Width      float64    `json:"width"`
	Layer      string     `json:"layer"`
	Net        string     `json:"net"`
	Generation Generation `json:"generation"`
	ID         string     `json:"id,omitempty"` // source shape id, empty when synthesized
}

// Key returns the net/layer group the track belongs to.
func (t *Track) Key() GroupKey {
	return GroupKey{Net: t.Net, Layer: t.Layer}
}

// Derive returns a new track with the attributes of t spanning start to end.
func (t *Track) Derive(start, end geometry.Point2D, gen Generation) *Track {
	return &Track{
		Line:       geometry.NewLine(start, end),
		Width:      t.Width,
		Layer:      t.Layer,
		Net:        t.Net,
		Generation: gen,
	}
}

// SortByWidthDesc sorts tracks by width, widest first. Ties keep their order.
func SortByWidthDesc(tracks []*Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Width > tracks[j].Width
	})
}

// GroupKey identifies tracks that may be smoothed together.
type GroupKey struct {
	Net   string `json:"net"`
	Layer string `json:"layer"`
}

func (k GroupKey) String() string {
	return fmt.Sprintf("net %q layer %s", k.Net, k.Layer)
}

// Group is the working list of tracks for one net and layer.
type Group struct {
	Key    GroupKey
	Tracks []*Track
}
