package smooth

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"pcb-roundtracks/internal/track"
)

// SmoothGroup runs the arc engine (when enabled) and then subdivision over a
// single net/layer group, replacing grp.Tracks with the smoothed list.
func SmoothGroup(grp *track.Group, p Params) (*ShapeBuffer, Stats) {
	buf := &ShapeBuffer{Key: grp.Key}
	st := Stats{Groups: 1}

	if p.MultiWay {
		st.Add(SmoothMultiWayJunctions(grp.Tracks, buf, p))
	}

	var sub Stats
	grp.Tracks, sub = Subdivide(grp.Tracks, p)
	st.Add(sub)

	Logger().Info("smoothed group",
		"net", grp.Key.Net, "layer", grp.Key.Layer,
		"tracks", len(grp.Tracks),
		"junctions", st.JunctionsSmoothed,
		"connectors", st.ConnectorsAdded,
		"arcs", st.ArcsEmitted)
	return buf, st
}

// Run smooths every group. Groups share no state, so up to workers groups are
// processed concurrently; workers <= 0 uses GOMAXPROCS. The returned buffers
// are in group order regardless of scheduling.
func Run(ctx context.Context, groups []*track.Group, p Params, workers int) ([]*ShapeBuffer, Stats, error) {
	if err := p.Validate(); err != nil {
		return nil, Stats{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	buffers := make([]*ShapeBuffer, len(groups))
	stats := make([]Stats, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buffers[i], stats[i] = SmoothGroup(grp, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	var total Stats
	for _, s := range stats {
		total.Add(s)
	}
	return buffers, total, nil
}
