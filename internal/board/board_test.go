package board

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-roundtracks/internal/smooth"
	"pcb-roundtracks/internal/track"
	"pcb-roundtracks/pkg/geometry"
)

const testDoc = `{
  "head": {"docType": "3", "editorVersion": "6.5.22"},
  "canvas": "CA~1000~1000~#000000~yes~#FFFFFF~10~1000~1000~line~0.5~mil~1~45~visible~0.5~4000~3000~0~yes",
  "shape": [
    "TRACK~1~1~GND~0 0 10 0 10 10~gge5~0",
    "VIA~4020~3020~2.4~GND~0.6~gge9~0",
    "TRACK~1~1~~bad~gge7~0",
    "TRACK~0.5~2~SIG~20 20 30 20~gge2~1",
    "ARC~1~1~~M 0 0 A 5 5 0 0 1 5 5~~gge3~0"
  ]
}`

func parseTestDoc(t *testing.T) *Board {
	t.Helper()
	b, err := Parse([]byte(testDoc))
	require.NoError(t, err)
	return b
}

func TestParseGroupsTracks(t *testing.T) {
	b := parseTestDoc(t)

	groups := b.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, track.GroupKey{Net: "GND", Layer: "1"}, groups[0].Key)
	assert.Len(t, groups[0].Tracks, 2)
	assert.Equal(t, track.GroupKey{Net: "SIG", Layer: "2"}, groups[1].Key)
	assert.Equal(t, 3, b.TrackCount())
}

func TestParseRejectsBadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"shape": 12}`))
	assert.Error(t, err)
	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseWithoutShapes(t *testing.T) {
	b, err := Parse([]byte(`{"head": {}}`))
	require.NoError(t, err)
	assert.Empty(t, b.Groups())
	assert.Empty(t, b.Shapes())
}

func TestNewShapeIDSkipsExisting(t *testing.T) {
	b := parseTestDoc(t)
	// gge10 went to the second segment of gge5
	assert.Equal(t, "gge11", b.NewShapeID())
	assert.Equal(t, "gge12", b.NewShapeID())
}

func TestShapesKeepsMalformedAndSplitsTracks(t *testing.T) {
	b := parseTestDoc(t)

	shapes := b.Shapes()
	assert.Equal(t, []string{
		"VIA~4020~3020~2.4~GND~0.6~gge9~0",
		"TRACK~1~1~~bad~gge7~0",
		"ARC~1~1~~M 0 0 A 5 5 0 0 1 5 5~~gge3~0",
		"TRACK~1~1~GND~0 0 10 0~gge5~0",
		"TRACK~1~1~GND~10 0 10 10~gge10~0",
		"TRACK~0.5~2~SIG~20 20 30 20~gge2~1",
	}, shapes)

	assert.Equal(t, shapes, b.Shapes())
}

func TestParseRenumbersDuplicateTrackIDs(t *testing.T) {
	b, err := Parse([]byte(`{"shape": [
		"TRACK~1~1~GND~0 0 10 0~gge4~1",
		"TRACK~1~1~GND~10 0 10 10~gge4~0",
		"TRACK~1~1~GND~10 10 0 10~~0"
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"TRACK~1~1~GND~0 0 10 0~gge4~1",
		"TRACK~1~1~GND~10 0 10 10~gge5~0",
		"TRACK~1~1~GND~10 10 0 10~gge6~0",
	}, b.Shapes())
}

func TestShapesLeavesBoardUnchanged(t *testing.T) {
	b := parseTestDoc(t)
	g := b.Groups()[1]
	src := g.Tracks[0]
	derived := src.Derive(geometry.NewPoint2D(30, 20), geometry.NewPoint2D(30, 30), track.GeneratedIn(0))
	g.Tracks = append(g.Tracks, derived)

	shapes := b.Shapes()
	assert.Contains(t, shapes, "TRACK~0.5~2~SIG~30 20 30 30~~0")
	assert.Equal(t, shapes, b.Shapes())
	assert.Empty(t, derived.ID)
	assert.Equal(t, "gge11", b.NewShapeID(), "listing shapes allocates nothing")
}

func TestMarshalAssignsIDsToDerivedTracks(t *testing.T) {
	b := parseTestDoc(t)
	g := b.Groups()[1]
	derived := g.Tracks[0].Derive(geometry.NewPoint2D(30, 20), geometry.NewPoint2D(30, 30), track.GeneratedIn(0))
	g.Tracks = append(g.Tracks, derived)

	data, err := b.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "gge11", derived.ID)
	assert.Contains(t, string(data), "TRACK~0.5~2~SIG~30 20 30 30~gge11~0")

	// a second encode keeps the same ids
	again, err := b.Marshal()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestCommit(t *testing.T) {
	b := parseTestDoc(t)
	arc := smooth.Arc{Width: 1, Layer: "1", Net: "GND",
		From: geometry.NewPoint2D(8, 0), To: geometry.NewPoint2D(10, 2), Radius: 2}
	first := &smooth.ShapeBuffer{}
	first.AddArc(arc)
	first.AddRegion(smooth.Region{Layer: "1", Net: "GND", Segments: []smooth.Arc{arc, arc}})
	second := &smooth.ShapeBuffer{}
	second.AddArc(arc)

	n := b.Commit([]*smooth.ShapeBuffer{first, nil, second})
	assert.Equal(t, 3, n)

	shapes := b.Shapes()
	require.GreaterOrEqual(t, len(shapes), 3)
	added := shapes[len(shapes)-3:]
	assert.Contains(t, added[0], "~gge11~")
	assert.Contains(t, added[1], "SOLIDREGION~1~GND~")
	assert.Contains(t, added[1], "~gge12~")
	assert.Contains(t, added[2], "~gge13~")

	arcs := b.Arcs()
	require.Len(t, arcs, 3)
	assert.Equal(t, 5.0, arcs[0].Radius)
	assert.True(t, arcs[0].Sweep)
	assert.InDelta(t, 2.0, arcs[1].Radius, 1e-9)
}

func TestCommitAssignsIDsToDerivedTracks(t *testing.T) {
	b := parseTestDoc(t)
	g := b.Groups()[0]
	derived := g.Tracks[0].Derive(geometry.NewPoint2D(8, 0), geometry.NewPoint2D(10, 2), track.GeneratedIn(0))
	g.Tracks = append(g.Tracks, derived)

	buf := &smooth.ShapeBuffer{}
	buf.AddArc(smooth.Arc{Width: 1, Layer: "1", Net: "GND",
		From: geometry.NewPoint2D(8, 0), To: geometry.NewPoint2D(10, 2), Radius: 2})
	require.Equal(t, 1, b.Commit([]*smooth.ShapeBuffer{buf}))

	// tracks are numbered before the buffered shapes
	assert.Equal(t, "gge11", derived.ID)
	shapes := b.Shapes()
	assert.Contains(t, shapes, "TRACK~1~1~GND~8 0 10 2~gge11~0")
	assert.Contains(t, shapes[len(shapes)-1], "~gge12~")
}

func TestAddShape(t *testing.T) {
	b := parseTestDoc(t)
	b.AddShape("ARC~1~1~~M 1 1 A 1 1 0 0 0 2 2~~" + b.NewShapeID() + "~0")
	assert.Len(t, b.Arcs(), 2)
}

func TestSaveLoad(t *testing.T) {
	b := parseTestDoc(t)
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, b.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, b.Shapes(), loaded.Shapes())
	assert.Equal(t, b.TrackCount(), loaded.TrackCount())

	data, err := loaded.Marshal()
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "head")
	assert.Contains(t, doc, "canvas")
	assert.JSONEq(t, `{"docType": "3", "editorVersion": "6.5.22"}`, string(doc["head"]))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dir", "board_smoothed.json"), DefaultOutputPath(filepath.Join("dir", "board.json")))
	assert.Equal(t, "board_smoothed", DefaultOutputPath("board"))
}
