package route

import "github.com/matzehuels/kintree/pkg/family"

// Style describes how a line is stroked. Dash is an SVG stroke-dasharray
// value; empty means solid.
type Style struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Dash  string  `json:"dash,omitempty"`
}

const (
	dashed = "6,4"
	dotted = "2,3"
)

// StyleFor returns the line style for a relationship based on its kind,
// subtype and status.
func StyleFor(rel family.Relationship) Style {
	switch rel.Kind {
	case family.KindSpouse:
		return spouseStyle(rel)
	case family.KindParentChild:
		s := Style{Color: "#37474f", Width: 2}
		switch rel.SubType {
		case family.SubTypeStep:
			s.Dash = dashed
		case family.SubTypeFoster:
			s.Dash = dotted
		}
		return s
	case family.KindAdopted:
		return Style{Color: "#2e7d32", Width: 2, Dash: "8,4"}
	case family.KindGuardian:
		return Style{Color: "#6a1b9a", Width: 1.5, Dash: "4,4"}
	default:
		return Style{Color: "#757575", Width: 1, Dash: "1,3"}
	}
}

func spouseStyle(rel family.Relationship) Style {
	switch rel.Status {
	case family.StatusDivorced:
		return Style{Color: "#9e9e9e", Width: 2, Dash: dashed}
	case family.StatusSeparated:
		return Style{Color: "#9e9e9e", Width: 2, Dash: dotted}
	case family.StatusDeceased:
		return Style{Color: "#616161", Width: 1.5}
	}
	s := Style{Color: "#c2185b", Width: 2.5}
	if rel.SubType == family.SubTypeCommonLaw {
		s.Dash = "10,3"
	}
	return s
}
