package board

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"pcb-roundtracks/internal/smooth"
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

// Shape type prefixes of the EasyEDA shape list.
const (
	KindTrack  = "TRACK"
	KindArc    = "ARC"
	KindRegion = "SOLIDREGION"
)

// coordPrecision is the number of decimals kept in emitted coordinates.
const coordPrecision = 5

const fieldSep = "~"

// shapeKind returns the type prefix of an encoded shape.
func shapeKind(s string) string {
	kind, _, _ := strings.Cut(s, fieldSep)
	return kind
}

// formatNumber prints v rounded to coordPrecision decimals without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(scalar.RoundEven(v, coordPrecision)+0, 'f', -1, 64)
}

// formatFixed prints v rounded to exactly coordPrecision decimals.
func formatFixed(v float64) string {
	return strconv.FormatFloat(scalar.RoundEven(v, coordPrecision)+0, 'f', coordPrecision, 64)
}

// trackShape is a parsed TRACK polyline.
type trackShape struct {
	Width  float64
	Layer  string
	Net    string
	Points []geometry.Point2D
	ID     string
	Locked string
}

// parseTrack decodes TRACK~width~layer~net~x1 y1 x2 y2 ...~id~locked.
func parseTrack(s string) (trackShape, error) {
	f := strings.Split(s, fieldSep)
	if len(f) < 6 || f[0] != KindTrack {
		return trackShape{}, fmt.Errorf("expected %d fields in TRACK shape, got %d", 6, len(f))
	}
	width, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return trackShape{}, fmt.Errorf("track width: %w", err)
	}
	if width <= 0 {
		return trackShape{}, fmt.Errorf("track width %g is not positive", width)
	}
	pts, err := parsePoints(f[4])
	if err != nil {
		return trackShape{}, err
	}
	if len(pts) < 2 {
		return trackShape{}, fmt.Errorf("track has %d points, need at least 2", len(pts))
	}
	ts := trackShape{Width: width, Layer: f[2], Net: f[3], Points: pts, ID: f[5], Locked: "0"}
	if len(f) > 6 && f[6] != "" {
		ts.Locked = f[6]
	}
	return ts, nil
}

func parsePoints(s string) ([]geometry.Point2D, error) {
	nums := strings.Fields(s)
	if len(nums)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate count %d", len(nums))
	}
	pts := make([]geometry.Point2D, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		x, err := strconv.ParseFloat(nums[i], 64)
		if err != nil {
			return nil, fmt.Errorf("point %d x: %w", i/2, err)
		}
		y, err := strconv.ParseFloat(nums[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("point %d y: %w", i/2, err)
		}
		pts = append(pts, geometry.NewPoint2D(x, y))
	}
	return pts, nil
}

// segments splits the polyline into one track per consecutive point pair.
func (ts trackShape) segments() []*track.Track {
	out := make([]*track.Track, 0, len(ts.Points)-1)
	for i := 1; i < len(ts.Points); i++ {
		out = append(out, &track.Track{
			Line:  geometry.NewLine(ts.Points[i-1], ts.Points[i]),
			Width: ts.Width,
			Layer: ts.Layer,
			Net:   ts.Net,
			ID:    ts.ID,
		})
	}
	return out
}

// encodeTrack writes a single segment as a TRACK shape.
func encodeTrack(t *track.Track, id, locked string) string {
	return strings.Join([]string{
		KindTrack,
		formatNumber(t.Width),
		t.Layer,
		t.Net,
		fmt.Sprintf("%s %s %s %s",
			formatNumber(t.Start.X), formatNumber(t.Start.Y),
			formatNumber(t.End.X), formatNumber(t.End.Y)),
		id,
		locked,
	}, fieldSep)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// arcCommand writes "A r r 0 large sweep" for arcs or "L" for straight pieces.
func arcCommand(a smooth.Arc) string {
	if a.Straight {
		return "L"
	}
	r := formatFixed(a.Radius)
	return fmt.Sprintf("A %s %s 0 %s %s", r, r, flag(a.LargeArc), flag(a.Sweep))
}

// EncodeArc writes ARC~width~layer~net~M x y A r r 0 0 0 x2 y2~~id~0. A
// straight arc is written as a TRACK segment instead, since ARC shapes must
// carry a curve.
func EncodeArc(a smooth.Arc, id string) string {
	if a.Straight {
		return encodeTrack(&track.Track{
			Line:  geometry.NewLine(a.From, a.To),
			Width: a.Width,
			Layer: a.Layer,
			Net:   a.Net,
		}, id, "0")
	}
	path := fmt.Sprintf("M %s %s %s %s %s",
		formatFixed(a.From.X), formatFixed(a.From.Y),
		arcCommand(a),
		formatFixed(a.To.X), formatFixed(a.To.Y))
	return strings.Join([]string{KindArc, formatNumber(a.Width), a.Layer, a.Net, path, "", id, "0"}, fieldSep)
}

// EncodeRegion writes SOLIDREGION~layer~net~path~solid~id~~~~0 where path
// chains every segment and closes with Z.
func EncodeRegion(r smooth.Region, id string) string {
	var b strings.Builder
	for i, seg := range r.Segments {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString("L ")
		}
		fmt.Fprintf(&b, "%s %s %s %s %s ",
			formatFixed(seg.From.X), formatFixed(seg.From.Y),
			arcCommand(seg),
			formatFixed(seg.To.X), formatFixed(seg.To.Y))
	}
	b.WriteString("Z")
	return strings.Join([]string{KindRegion, r.Layer, r.Net, b.String(), "solid", id, "", "", "", "0"}, fieldSep)
}

// ParseArc decodes an ARC shape whose path is a single "M x y A rx ry rot
// large sweep x y" command. Other path forms are rejected.
func ParseArc(s string) (smooth.Arc, error) {
	f := strings.Split(s, fieldSep)
	if len(f) < 5 || f[0] != KindArc {
		return smooth.Arc{}, fmt.Errorf("expected at least %d fields in ARC shape, got %d", 5, len(f))
	}
	width, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return smooth.Arc{}, fmt.Errorf("arc width: %w", err)
	}
	tok := strings.Fields(f[4])
	if len(tok) != 11 || tok[0] != "M" || tok[3] != "A" {
		return smooth.Arc{}, fmt.Errorf("unsupported arc path %q", f[4])
	}
	nums := make([]float64, 0, 9)
	for _, t := range append(tok[1:3:3], tok[4:]...) {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return smooth.Arc{}, fmt.Errorf("arc path %q: %w", f[4], err)
		}
		nums = append(nums, v)
	}
	return smooth.Arc{
		Width:    width,
		Layer:    f[2],
		Net:      f[3],
		From:     geometry.NewPoint2D(nums[0], nums[1]),
		Radius:   nums[2],
		LargeArc: nums[5] != 0,
		Sweep:    nums[6] != 0,
		To:       geometry.NewPoint2D(nums[7], nums[8]),
	}, nil
}
