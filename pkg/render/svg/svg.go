package svg

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/route"
)

const fontFamily = `system-ui, -apple-system, "Segoe UI", sans-serif`

// generationFills cycles through card backgrounds by generation.
var generationFills = []string{"#e3f2fd", "#e8f5e9", "#fff3e0", "#f3e5f5", "#fce4ec", "#e0f7fa"}

type Option func(*renderer)

type renderer struct {
	cardW, cardH float64
	padding      float64
	gens         family.Generations
	title        string
}

// WithCardSize overrides the card dimensions; they must match the layout.
func WithCardSize(w, h float64) Option {
	return func(r *renderer) { r.cardW, r.cardH = w, h }
}

func WithPadding(p float64) Option { return func(r *renderer) { r.padding = p } }

// WithGenerations tints each card by its generation.
func WithGenerations(g family.Generations) Option { return func(r *renderer) { r.gens = g } }

func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// Render returns an SVG document with one card per member and one line per
// geometry.
func Render(members []family.Member, edges []route.Geometry, opts ...Option) []byte {
	r := renderer{cardW: layout.DefaultCardWidth, cardH: layout.DefaultCardHeight, padding: 20}
	for _, opt := range opts {
		opt(&r)
	}

	members = slices.Clone(members)
	slices.SortFunc(members, func(a, b family.Member) int { return cmp.Compare(a.ID, b.ID) })

	box := layout.FromMembers(members).Bounds(r.cardW, r.cardH)
	x, y := box.MinX-r.padding, box.MinY-r.padding
	w, h := box.Width()+2*r.padding, box.Height()+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		x, y, w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white"/>`+"\n", x, y, w, h)

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range edges {
		renderEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="members">` + "\n")
	for _, m := range members {
		r.renderCard(&buf, m)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="labels">` + "\n")
	for _, e := range edges {
		renderLabel(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdge(buf *bytes.Buffer, e route.Geometry) {
	dash := ""
	if e.Style.Dash != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, e.Style.Dash)
	}
	fmt.Fprintf(buf, `    <line class="edge %s" data-key="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		e.Kind, escapeXML(e.Key), e.Start.X, e.Start.Y, e.End.X, e.End.Y, e.Style.Color, e.Style.Width, dash)
	if a := e.Arrow; a != nil {
		fmt.Fprintf(buf, `    <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
			a.Tip.X, a.Tip.Y, a.Left.X, a.Left.Y, a.Right.X, a.Right.Y, e.Style.Color)
	}
}

func renderLabel(buf *bytes.Buffer, e route.Geometry) {
	if e.Label == "" || e.LabelAt == nil {
		return
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dy="-4" font-family='%s' font-size="11" fill="%s" font-style="italic">%s</text>`+"\n",
		e.LabelAt.X, e.LabelAt.Y, fontFamily, e.Style.Color, escapeXML(e.Label))
}

func (r *renderer) renderCard(buf *bytes.Buffer, m family.Member) {
	fill := "#ffffff"
	if g, ok := r.gens[m.ID]; ok && g >= 0 {
		fill = generationFills[g%len(generationFills)]
	}
	stroke := "#455a64"
	if m.DeathDate != "" {
		stroke = "#9e9e9e"
	}

	cx := m.X + r.cardW/2
	fmt.Fprintf(buf, `    <g class="member" id="member-%d">`+"\n", m.ID)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" ry="8" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		m.X, m.Y, r.cardW, r.cardH, fill, stroke)

	name := m.DisplayName()
	size := fontSizeFor(r.cardW, r.cardH, len(name))
	name = truncate(name, r.cardW, size)
	lifespan := m.Lifespan()
	nameY := m.Y + r.cardH/2
	if lifespan != "" {
		nameY -= size * 0.4
	}
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family='%s' font-size="%.1f" fill="#263238">%s</text>`+"\n",
		cx, nameY, fontFamily, size, escapeXML(name))
	if lifespan != "" {
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family='%s' font-size="%.1f" fill="#607d8b">%s</text>`+"\n",
			cx, nameY+size*1.2, fontFamily, size*0.75, escapeXML(lifespan))
	}
	buf.WriteString("    </g>\n")
}
