// Package render rasterizes tracks and arcs into a preview image.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"

	"pcb-roundtracks/internal/smooth"
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/colorutil"
	"pcb-roundtracks/pkg/geometry"
)

// RenderOptions configures how a scene is rendered.
type RenderOptions struct {
	Scale   float64 // pixels per board unit
	Margin  float64 // board units around the content
	MaxSize int     // largest image side in pixels; Scale is reduced to fit

	Background color.RGBA

	ArcSegments int // segments per arc
	CapSegments int // segments per round track end

	MarkGenerated bool // darken tracks added by smoothing
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Scale:         4,
		Margin:        5,
		MaxSize:       4096,
		Background:    colorutil.Black,
		ArcSegments:   16,
		CapSegments:   12,
		MarkGenerated: true,
	}
}

// Scene is the geometry to draw.
type Scene struct {
	Tracks []*track.Track
	Arcs   []smooth.Arc
}

// Bounds returns the board-space extent of the scene, stroke widths included.
func (s Scene) Bounds() geometry.Rect {
	var r geometry.Rect
	first := true
	add := func(pts []geometry.Point2D, width float64) {
		b := geometry.BoundingBox(pts).Inset(width / 2)
		if first {
			r, first = b, false
			return
		}
		r = r.Union(b)
	}
	for _, t := range s.Tracks {
		add([]geometry.Point2D{t.Start, t.End}, t.Width)
	}
	for _, a := range s.Arcs {
		add(arcPath(a, boundsArcSegments), a.Width)
	}
	return r
}

const boundsArcSegments = 32

// arcPath returns the polyline approximating a.
func arcPath(a smooth.Arc, segments int) []geometry.Point2D {
	if a.Straight {
		return []geometry.Point2D{a.From, a.To}
	}
	return geometry.ArcPoints(a.From, a.To, a.Radius, a.LargeArc, a.Sweep, max(1, segments))
}

type renderer struct {
	opts RenderOptions
	img  *image.RGBA
	xf   geometry.AffineTransform
	ras  *vector.Rasterizer
}

// Render produces an image of the scene. An empty scene yields a blank image
// of the margin alone.
func Render(s Scene, opts RenderOptions) *image.RGBA {
	bounds := s.Bounds().Inset(opts.Margin)
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	if opts.MaxSize > 0 {
		if side := math.Max(bounds.Width, bounds.Height) * scale; side > float64(opts.MaxSize) {
			scale *= float64(opts.MaxSize) / side
		}
	}
	w := max(1, int(math.Ceil(bounds.Width*scale)))
	h := max(1, int(math.Ceil(bounds.Height*scale)))

	r := &renderer{
		opts: opts,
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		xf:   geometry.Scale(scale, scale).Compose(geometry.Translation(-bounds.X, -bounds.Y)),
		ras:  vector.NewRasterizer(w, h),
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for _, t := range s.Tracks {
		c := colorutil.LayerColor(t.Layer)
		if opts.MarkGenerated && !t.Generation.IsInput() {
			c = colorutil.Darken(c, 0.4)
		}
		r.stroke([]geometry.Point2D{t.Start, t.End}, t.Width, c)
	}
	for _, a := range s.Arcs {
		r.stroke(arcPath(a, opts.ArcSegments), a.Width, colorutil.Yellow)
	}
	return r.img
}

// stroke draws a polyline of the given board width with round ends and joins.
// Each piece is rasterized on its own so overlapping outlines never cancel.
func (r *renderer) stroke(pts []geometry.Point2D, width float64, c color.RGBA) {
	half := width / 2
	for i := 1; i < len(pts); i++ {
		l := geometry.NewLine(pts[i-1], pts[i])
		if l.Length() == 0 {
			continue
		}
		n := l.VecToEdge(width)
		r.fill([]geometry.Point2D{
			l.Start.Add(n), l.End.Add(n), l.End.Sub(n), l.Start.Sub(n),
		}, c)
	}
	for _, p := range pts {
		r.fill(geometry.GenerateCirclePoints(p, half, max(3, r.opts.CapSegments)), c)
	}
}

// fill rasterizes a closed polygon given in board coordinates.
func (r *renderer) fill(poly []geometry.Point2D, c color.RGBA) {
	if len(poly) < 3 {
		return
	}
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	p := r.xf.Apply(poly[0])
	r.ras.MoveTo(float32(p.X), float32(p.Y))
	for _, q := range poly[1:] {
		p = r.xf.Apply(q)
		r.ras.LineTo(float32(p.X), float32(p.Y))
	}
	r.ras.ClosePath()
	r.ras.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
