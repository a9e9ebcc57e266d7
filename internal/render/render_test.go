package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-roundtracks/internal/smooth"
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/colorutil"
	"pcb-roundtracks/pkg/geometry"
)

func testOptions() RenderOptions {
	opts := DefaultRenderOptions()
	opts.Scale = 1
	opts.Margin = 1
	opts.MaxSize = 0
	return opts
}

func horizontal(layer string) *track.Track {
	return &track.Track{
		Line:  geometry.NewLine(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0)),
		Width: 2,
		Layer: layer,
	}
}

func assertNear(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	assert.InDelta(t, float64(want.R), float64(r>>8), 3)
	assert.InDelta(t, float64(want.G), float64(g>>8), 3)
	assert.InDelta(t, float64(want.B), float64(b>>8), 3)
}

func TestSceneBounds(t *testing.T) {
	s := Scene{
		Tracks: []*track.Track{horizontal("1")},
		Arcs: []smooth.Arc{{
			Width: 1, From: geometry.NewPoint2D(10, 0), To: geometry.NewPoint2D(12, 2), Straight: true,
		}},
	}
	b := s.Bounds()
	assert.InDelta(t, -1.0, b.X, 1e-9)
	assert.InDelta(t, -1.0, b.Y, 1e-9)
	assert.InDelta(t, 12.5, b.X+b.Width, 1e-9)
	assert.InDelta(t, 2.5, b.Y+b.Height, 1e-9)
}

func TestRenderTrack(t *testing.T) {
	img := Render(Scene{Tracks: []*track.Track{horizontal("1")}}, testOptions())

	// (-2,-2) .. (12,2) in board units
	require.Equal(t, 14, img.Bounds().Dx())
	require.Equal(t, 4, img.Bounds().Dy())
	assertNear(t, colorutil.LayerColor("1"), img.At(7, 2))
	assertNear(t, colorutil.Black, img.At(0, 0))
}

func TestRenderMarksGeneratedTracks(t *testing.T) {
	tr := horizontal("2")
	tr.Generation = track.GeneratedIn(0)

	img := Render(Scene{Tracks: []*track.Track{tr}}, testOptions())
	assertNear(t, colorutil.Darken(colorutil.LayerColor("2"), 0.4), img.At(7, 2))

	opts := testOptions()
	opts.MarkGenerated = false
	img = Render(Scene{Tracks: []*track.Track{tr}}, opts)
	assertNear(t, colorutil.LayerColor("2"), img.At(7, 2))
}

func TestRenderArc(t *testing.T) {
	a := smooth.Arc{
		Width: 2, From: geometry.NewPoint2D(0, 0), To: geometry.NewPoint2D(10, 0), Radius: 5,
	}
	s := Scene{Arcs: []smooth.Arc{a}}
	assert.InDelta(t, 7.0, s.Bounds().Height, 1e-6, "bulge of the half circle is included")

	img := Render(s, testOptions())

	yellow := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R > 240 && c.G > 240 && c.B < 20 {
				yellow++
			}
		}
	}
	assert.Positive(t, yellow)
}

func TestRenderClampsSize(t *testing.T) {
	opts := testOptions()
	opts.Scale = 100
	opts.MaxSize = 64

	img := Render(Scene{Tracks: []*track.Track{horizontal("1")}}, opts)
	assert.LessOrEqual(t, img.Bounds().Dx(), 64)
	assert.LessOrEqual(t, img.Bounds().Dy(), 64)
}

func TestRenderEmptyScene(t *testing.T) {
	img := Render(Scene{}, testOptions())
	assert.Equal(t, 2, img.Bounds().Dx())
	assertNear(t, colorutil.Black, img.At(1, 1))
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, WritePNG(path, Render(Scene{Tracks: []*track.Track{horizontal("1")}}, testOptions())))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 14, img.Bounds().Dx())
}
