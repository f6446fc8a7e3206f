package layout

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"

	"github.com/matzehuels/kintree/pkg/family"
)

// Epsilon is the smallest coordinate difference treated as a move.
const Epsilon = 0.01

// Position is the top-left corner of a member's card.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Equal reports whether p and q differ by less than Epsilon on both axes.
func (p Position) Equal(q Position) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// PositionMap is the output of a layout: one position per member.
type PositionMap map[family.ID]Position

// IDs returns the member IDs in ascending order.
func (pm PositionMap) IDs() []family.ID {
	return slices.Sorted(maps.Keys(pm))
}

// Equal reports whether pm and other hold the same members at equal
// positions.
func (pm PositionMap) Equal(other PositionMap) bool {
	if len(pm) != len(other) {
		return false
	}
	for id, p := range pm {
		q, ok := other[id]
		if !ok || !p.Equal(q) {
			return false
		}
	}
	return true
}

// Change is a member whose stored position differs from the layout.
type Change struct {
	ID   family.ID `json:"id"`
	From Position  `json:"from"`
	To   Position  `json:"to"`
}

// Diff compares the layout against the positions stored on members and
// returns the members that moved, sorted by ID. Members absent from pm
// are ignored.
func (pm PositionMap) Diff(members []family.Member) []Change {
	var changes []Change
	for _, m := range members {
		to, ok := pm[m.ID]
		if !ok {
			continue
		}
		from := Position{X: m.X, Y: m.Y}
		if !from.Equal(to) {
			changes = append(changes, Change{ID: m.ID, From: from, To: to})
		}
	}
	slices.SortFunc(changes, func(a, b Change) int { return cmp.Compare(a.ID, b.ID) })
	return changes
}

// Apply returns a copy of members with positions taken from pm. Members
// absent from pm keep their stored position.
func (pm PositionMap) Apply(members []family.Member) []family.Member {
	out := slices.Clone(members)
	for i, m := range out {
		if p, ok := pm[m.ID]; ok {
			out[i].X, out[i].Y = p.X, p.Y
		}
	}
	return out
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY - MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Bounds returns the box enclosing every card of size w×h placed at the
// positions in pm. An empty map yields the zero Rect.
func (pm PositionMap) Bounds(w, h float64) Rect {
	if len(pm) == 0 {
		return Rect{}
	}
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range pm {
		r.MinX = min(r.MinX, p.X)
		r.MinY = min(r.MinY, p.Y)
		r.MaxX = max(r.MaxX, p.X+w)
		r.MaxY = max(r.MaxY, p.Y+h)
	}
	return r
}

// FromMembers builds a PositionMap from the positions stored on members.
func FromMembers(members []family.Member) PositionMap {
	pm := make(PositionMap, len(members))
	for _, m := range members {
		pm[m.ID] = Position{X: m.X, Y: m.Y}
	}
	return pm
}

// WritePositions writes pm as indented JSON keyed by member ID.
func WritePositions(pm PositionMap, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pm); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePositionsFile writes pm to a JSON file.
func WritePositionsFile(pm PositionMap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePositions(pm, f)
}

// ReadPositions decodes a PositionMap written by WritePositions.
func ReadPositions(r io.Reader) (PositionMap, error) {
	var pm PositionMap
	if err := json.NewDecoder(r).Decode(&pm); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return pm, nil
}
