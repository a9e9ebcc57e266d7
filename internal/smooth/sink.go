package smooth

import (
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

// Shape is new output geometry produced by the arc engine.
type Shape interface {
	Kind() string
}

// Arc is a stroked circular arc from From to To. Straight arcs are plain
// segments, emitted where the joined tracks are nearly collinear.
type Arc struct {
	Width    float64
	Layer    string
	Net      string
	From, To geometry.Point2D
	Radius   float64
	LargeArc bool // SVG large-arc flag; always false for generated arcs
	Sweep    bool // SVG sweep flag; always false for generated arcs
	Straight bool
}

func (Arc) Kind() string { return "ARC" }

// Region is a filled outline made of consecutive arc segments, closed back to
// the first point.
type Region struct {
	Layer    string
	Net      string
	Segments []Arc
}

func (Region) Kind() string { return "SOLIDREGION" }

// Sink accepts shapes generated by the arc engine.
type Sink interface {
	AddArc(a Arc)
	AddRegion(r Region)
}

// ShapeBuffer collects the shapes of one net/layer group in emission order so
// that shape identifiers can be allocated afterwards, in group order.
type ShapeBuffer struct {
	Key    track.GroupKey
	Shapes []Shape
}

func (b *ShapeBuffer) AddArc(a Arc)       { b.Shapes = append(b.Shapes, a) }
func (b *ShapeBuffer) AddRegion(r Region) { b.Shapes = append(b.Shapes, r) }

// Len returns the number of buffered shapes.
func (b *ShapeBuffer) Len() int {
	return len(b.Shapes)
}
