package route

import (
	"fmt"
	"math"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

// Defaults for routing tolerances, in canvas units.
const (
	DefaultAlignTolerance = 20.0
	DefaultArrowSize      = 10.0
)

// Options controls anchor geometry. Card dimensions must match those the
// positions were computed with.
type Options struct {
	CardWidth  float64 `json:"card_width" toml:"card_width"`
	CardHeight float64 `json:"card_height" toml:"card_height"`
	// AlignTolerance is the largest vertical offset at which two spouses
	// still count as sharing a row for midpoint routing.
	AlignTolerance float64 `json:"align_tolerance" toml:"align_tolerance"`
	ArrowSize      float64 `json:"arrow_size" toml:"arrow_size"`
}

// DefaultOptions matches layout.DefaultOptions card geometry.
func DefaultOptions() Options {
	return Options{
		CardWidth:      layout.DefaultCardWidth,
		CardHeight:     layout.DefaultCardHeight,
		AlignTolerance: DefaultAlignTolerance,
		ArrowSize:      DefaultArrowSize,
	}
}

// OptionsFrom derives routing options from layout options.
func OptionsFrom(lo layout.Options) Options {
	o := DefaultOptions()
	if lo.CardWidth > 0 {
		o.CardWidth = lo.CardWidth
	}
	if lo.CardHeight > 0 {
		o.CardHeight = lo.CardHeight
	}
	return o
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.CardWidth <= 0 {
		o.CardWidth = d.CardWidth
	}
	if o.CardHeight <= 0 {
		o.CardHeight = d.CardHeight
	}
	if o.AlignTolerance < 0 {
		o.AlignTolerance = d.AlignTolerance
	}
	if o.ArrowSize <= 0 {
		o.ArrowSize = d.ArrowSize
	}
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mid returns the midpoint between p and q.
func (p Point) Mid(q Point) Point { return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2} }

// Arrow is an arrowhead whose tip sits on the target anchor. Left and
// Right are the two back corners of the head.
type Arrow struct {
	Tip   Point   `json:"tip"`
	Left  Point   `json:"left"`
	Right Point   `json:"right"`
	Angle float64 `json:"angle"`
}

// Geometry is everything a renderer needs to draw one relationship.
type Geometry struct {
	RelationshipID string      `json:"relationship_id,omitempty"`
	Kind           family.Kind `json:"type"`
	From           family.ID   `json:"from"`
	To             family.ID   `json:"to"`
	// CoParent is set when a parent-child line starts at the midpoint
	// between From and CoParent.
	CoParent family.ID `json:"co_parent,omitempty"`
	Start    Point     `json:"start"`
	End      Point     `json:"end"`
	Style    Style     `json:"style"`
	Arrow    *Arrow    `json:"arrow,omitempty"`
	Label    string    `json:"label,omitempty"`
	LabelAt  *Point    `json:"label_at,omitempty"`
	Key      string    `json:"key"`
}

// Router resolves relationships against a fixed set of positioned members.
type Router struct {
	opts    Options
	pos     map[family.ID]Point
	rels    []family.Relationship
	parents map[family.ID][]family.ID
	married map[[2]family.ID]bool
}

// NewRouter indexes members and relationships for routing. Members carry
// the top-left corner of their card in X and Y.
func NewRouter(members []family.Member, rels []family.Relationship, opts Options) *Router {
	opts.setDefaults()
	ix := family.NewIndex(family.Snapshot{Members: members, Relationships: rels})
	r := &Router{
		opts:    opts,
		pos:     make(map[family.ID]Point, len(members)),
		rels:    rels,
		parents: make(map[family.ID][]family.ID),
		married: make(map[[2]family.ID]bool),
	}
	for _, m := range members {
		r.pos[m.ID] = Point{X: m.X, Y: m.Y}
	}
	for _, id := range ix.Members() {
		r.parents[id] = ix.Parents(id)
	}
	for _, rel := range ix.Relationships() {
		if rel.Kind == family.KindSpouse && rel.Status.Active() {
			lo, hi := rel.Endpoints()
			r.married[[2]family.ID{lo, hi}] = true
		}
	}
	return r
}

// NewRouterFromLayout routes a snapshot using freshly computed positions
// instead of the stored ones.
func NewRouterFromLayout(s family.Snapshot, pm layout.PositionMap, opts Options) *Router {
	return NewRouter(pm.Apply(s.Members), s.Relationships, opts)
}

// Route returns the geometry for rel. It reports false when either
// endpoint is missing or the edge loops back to its own member.
func (r *Router) Route(rel family.Relationship) (Geometry, bool) {
	from, okFrom := r.pos[rel.From]
	to, okTo := r.pos[rel.To]
	if !okFrom || !okTo || rel.From == rel.To {
		return Geometry{}, false
	}

	g := Geometry{
		RelationshipID: rel.ID,
		Kind:           rel.Kind,
		From:           rel.From,
		To:             rel.To,
		Style:          StyleFor(rel),
	}

	switch rel.Kind {
	case family.KindSpouse, family.KindOther:
		lo, hi := rel.Endpoints()
		g.Start, g.End = r.center(from), r.center(to)
		g.Key = fmt.Sprintf("%s:%d:%d", rel.Kind, lo, hi)
	case family.KindParentChild:
		g.Start, g.End = r.bottom(from), r.top(to)
		g.Key = fmt.Sprintf("%s:%d:%d", rel.Kind, rel.From, rel.To)
		if co, ok := r.coParent(rel.From, rel.To); ok {
			lo, hi := min(rel.From, co), max(rel.From, co)
			g.From, g.CoParent = lo, hi
			g.Start = r.bottom(r.pos[lo]).Mid(r.bottom(r.pos[hi]))
			g.Key = fmt.Sprintf("%s:%d:%d:%d", rel.Kind, lo, hi, rel.To)
		}
	default:
		g.Start, g.End = r.bottom(from), r.top(to)
		g.Key = fmt.Sprintf("%s:%d:%d", rel.Kind, rel.From, rel.To)
	}

	if rel.Kind.Directed() {
		g.Arrow = r.arrow(g.Start, g.End)
	}
	if label := labelFor(rel); label != "" {
		mid := g.Start.Mid(g.End)
		g.Label, g.LabelAt = label, &mid
	}
	return g, true
}

// RouteAll routes every relationship in order, skipping unroutable edges
// and any edge whose Key was already produced.
func (r *Router) RouteAll() []Geometry {
	seen := make(map[string]bool, len(r.rels))
	out := make([]Geometry, 0, len(r.rels))
	for _, rel := range r.rels {
		g, ok := r.Route(rel)
		if !ok || seen[g.Key] {
			continue
		}
		seen[g.Key] = true
		out = append(out, g)
	}
	return out
}

// coParent finds the lowest-ID other parent of child that is an active
// spouse of parent and sits on the same row within tolerance.
func (r *Router) coParent(parent, child family.ID) (family.ID, bool) {
	p := r.pos[parent]
	for _, other := range r.parents[child] {
		if other == parent {
			continue
		}
		q, ok := r.pos[other]
		if !ok || math.Abs(p.Y-q.Y) > r.opts.AlignTolerance {
			continue
		}
		if r.married[[2]family.ID{min(parent, other), max(parent, other)}] {
			return other, true
		}
	}
	return 0, false
}

func (r *Router) center(p Point) Point {
	return Point{X: p.X + r.opts.CardWidth/2, Y: p.Y + r.opts.CardHeight/2}
}

func (r *Router) top(p Point) Point {
	return Point{X: p.X + r.opts.CardWidth/2, Y: p.Y}
}

func (r *Router) bottom(p Point) Point {
	return Point{X: p.X + r.opts.CardWidth/2, Y: p.Y + r.opts.CardHeight}
}

func (r *Router) arrow(start, end Point) *Arrow {
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	const spread = math.Pi / 6
	size := r.opts.ArrowSize
	return &Arrow{
		Tip:   end,
		Angle: angle,
		Left: Point{
			X: end.X - size*math.Cos(angle-spread),
			Y: end.Y - size*math.Sin(angle-spread),
		},
		Right: Point{
			X: end.X - size*math.Cos(angle+spread),
			Y: end.Y - size*math.Sin(angle+spread),
		},
	}
}

func labelFor(rel family.Relationship) string {
	if !rel.Status.Active() {
		return rel.Status.String()
	}
	if rel.Kind == family.KindOther {
		return string(rel.SubType)
	}
	return ""
}
