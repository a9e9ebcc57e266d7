// Package board reads and writes EasyEDA PCB documents and acts as the shape
// sink for the smoothing engines.
package board

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"pcb-roundtracks/internal/smooth"
	"pcb-roundtracks/internal/track"
)

// UnitsPerMil converts mils to EasyEDA canvas units (10 mil each).
const UnitsPerMil = 0.1

// shapeIDRe matches EasyEDA shape identifiers such as "gge123".
var shapeIDRe = regexp.MustCompile(`gge(\d+)`)

// Board is an EasyEDA PCB document. Tracks are split into straight segments
// grouped by net and layer; every other shape is carried through verbatim.
type Board struct {
	mu sync.Mutex

	doc    map[string]json.RawMessage // top-level document, "shape" excluded
	shapes []string                   // non-track shapes in document order
	added  []string                   // shapes added since load
	locked map[string]string          // locked flag per source track id

	groups  []*track.Group
	groupIx map[track.GroupKey]*track.Group

	lastID int
}

// Load reads a board from an EasyEDA JSON file.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes an EasyEDA document. Malformed TRACK shapes are logged and
// kept verbatim rather than failing the whole board.
func Parse(data []byte) (*Board, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("board: decode document: %w", err)
	}

	var shapes []string
	if raw, ok := doc["shape"]; ok {
		if err := json.Unmarshal(raw, &shapes); err != nil {
			return nil, fmt.Errorf("board: decode shape list: %w", err)
		}
		delete(doc, "shape")
	}

	b := &Board{
		doc:     doc,
		locked:  make(map[string]string),
		groupIx: make(map[track.GroupKey]*track.Group),
	}
	for _, s := range shapes {
		b.noteID(s)
	}

	// the first segment of each source track keeps its id; later segments
	// and repeated ids get fresh ones
	seen := make(map[string]bool)
	for i, s := range shapes {
		if shapeKind(s) != KindTrack {
			b.shapes = append(b.shapes, s)
			continue
		}
		ts, err := parseTrack(s)
		if err != nil {
			log.Printf("board: shape %d: %v; keeping it unchanged", i, err)
			b.shapes = append(b.shapes, s)
			continue
		}
		for _, t := range ts.segments() {
			if t.ID == "" || seen[t.ID] {
				t.ID = b.newShapeIDLocked()
			}
			seen[t.ID] = true
			b.locked[t.ID] = ts.Locked
			b.addTrack(t)
		}
	}
	return b, nil
}

func (b *Board) noteID(s string) {
	for _, m := range shapeIDRe.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > b.lastID {
			b.lastID = n
		}
	}
}

func (b *Board) addTrack(t *track.Track) {
	key := t.Key()
	g, ok := b.groupIx[key]
	if !ok {
		g = &track.Group{Key: key}
		b.groupIx[key] = g
		b.groups = append(b.groups, g)
	}
	g.Tracks = append(g.Tracks, t)
}

// Groups returns the track groups in order of first appearance. Callers may
// replace a group's Tracks; Marshal writes whatever the groups hold.
func (b *Board) Groups() []*track.Group {
	return b.groups
}

// TrackCount returns the number of track segments across all groups.
func (b *Board) TrackCount() int {
	n := 0
	for _, g := range b.groups {
		n += len(g.Tracks)
	}
	return n
}

// NewShapeID allocates an identifier not used anywhere in the document.
func (b *Board) NewShapeID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.newShapeIDLocked()
}

func (b *Board) newShapeIDLocked() string {
	b.lastID++
	return "gge" + strconv.Itoa(b.lastID)
}

// AddShape appends an encoded shape to the document.
func (b *Board) AddShape(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = append(b.added, s)
}

// Commit gives every track added by smoothing an identifier, then encodes
// buffered shapes with fresh identifiers, buffer by buffer. It returns how
// many shapes were added.
func (b *Board) Commit(buffers []*smooth.ShapeBuffer) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignTrackIDsLocked()
	n := 0
	for _, buf := range buffers {
		if buf == nil {
			continue
		}
		for _, s := range buf.Shapes {
			id := b.newShapeIDLocked()
			switch s := s.(type) {
			case smooth.Arc:
				b.added = append(b.added, EncodeArc(s, id))
			case smooth.Region:
				b.added = append(b.added, EncodeRegion(s, id))
			default:
				log.Printf("board: unsupported shape kind %s", s.Kind())
				continue
			}
			n++
		}
	}
	return n
}

// assignTrackIDsLocked gives an identifier to every track that has none, in
// group order.
func (b *Board) assignTrackIDsLocked() {
	for _, g := range b.groups {
		for _, t := range g.Tracks {
			if t.ID == "" {
				t.ID = b.newShapeIDLocked()
			}
		}
	}
}

// Shapes returns the shape list: carried-through shapes, one TRACK per
// segment, then added shapes. Tracks appended to a group since the last
// Commit or Marshal are listed without an identifier.
func (b *Board) Shapes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shapesLocked()
}

func (b *Board) shapesLocked() []string {
	out := make([]string, 0, len(b.shapes)+len(b.added)+b.TrackCount())
	out = append(out, b.shapes...)
	for _, g := range b.groups {
		for _, t := range g.Tracks {
			locked, ok := b.locked[t.ID]
			if !ok {
				locked = "0"
			}
			out = append(out, encodeTrack(t, t.ID, locked))
		}
	}
	return append(out, b.added...)
}

// Arcs returns every ARC shape in the document that can be decoded.
func (b *Board) Arcs() []smooth.Arc {
	b.mu.Lock()
	all := append(append([]string(nil), b.shapes...), b.added...)
	b.mu.Unlock()

	var arcs []smooth.Arc
	for _, s := range all {
		if shapeKind(s) != KindArc {
			continue
		}
		a, err := ParseArc(s)
		if err != nil {
			continue
		}
		arcs = append(arcs, a)
	}
	return arcs
}

// Marshal encodes the document as JSON, first giving an identifier to any
// track that has none.
func (b *Board) Marshal() ([]byte, error) {
	b.mu.Lock()
	b.assignTrackIDsLocked()
	list := b.shapesLocked()
	b.mu.Unlock()

	shapes, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]json.RawMessage, len(b.doc)+1)
	for k, v := range b.doc {
		doc[k] = v
	}
	doc["shape"] = shapes
	return json.Marshal(doc)
}

// Save writes the document to path.
func (b *Board) Save(path string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultOutputPath returns "<name>_smoothed<ext>" next to the input.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_smoothed" + ext
}
