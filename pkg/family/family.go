package family

import (
	"fmt"
	"strings"
)

// ID identifies a member. IDs order numerically, which is the stable key
// used for every deterministic ordering in the engine.
type ID uint64

// Kind is the type of a relationship edge.
type Kind int

const (
	// KindParentChild links a parent (From) to a child (To).
	KindParentChild Kind = iota
	// KindSpouse links two partners. Direction carries no meaning.
	KindSpouse
	// KindAdopted links an adoptive parent (From) to a child (To).
	KindAdopted
	// KindGuardian links a guardian (From) to a ward (To).
	KindGuardian
	// KindOther is any other recorded connection. Undirected.
	KindOther
)

var kindNames = [...]string{
	KindParentChild: "parent-child",
	KindSpouse:      "spouse",
	KindAdopted:     "adopted",
	KindGuardian:    "guardian",
	KindOther:       "other",
}

// Kinds lists every relationship kind in declaration order.
var Kinds = []Kind{KindParentChild, KindSpouse, KindAdopted, KindGuardian, KindOther}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= KindParentChild && k <= KindOther }

// Directed reports whether the edge has a meaningful source and target.
// Directed edges are drawn with an arrowhead at the target.
func (k Kind) Directed() bool {
	return k == KindParentChild || k == KindAdopted || k == KindGuardian
}

// ParseKind parses a kind name. Underscores and case are normalized, so
// "Parent_Child" and "parent-child" are equivalent.
func ParseKind(s string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for k, name := range kindNames {
		if name == norm {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown relationship kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid relationship kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SubType refines a relationship kind, e.g. biological vs. step parent.
type SubType string

const (
	SubTypeNone       SubType = ""
	SubTypeBiological SubType = "biological"
	SubTypeStep       SubType = "step"
	SubTypeFoster     SubType = "foster"
	SubTypeLegal      SubType = "legal"
	SubTypeCommonLaw  SubType = "common-law"
)

// subTypes lists the subtypes each kind accepts. KindOther accepts any
// free-form label and is absent from the table.
var subTypes = map[Kind][]SubType{
	KindParentChild: {SubTypeNone, SubTypeBiological, SubTypeStep, SubTypeFoster},
	KindSpouse:      {SubTypeNone, SubTypeLegal, SubTypeCommonLaw},
	KindAdopted:     {SubTypeNone},
	KindGuardian:    {SubTypeNone},
}

// Status is the state of a spousal relationship.
type Status int

const (
	StatusActive Status = iota
	StatusDivorced
	StatusSeparated
	StatusDeceased
)

var statusNames = [...]string{
	StatusActive:    "active",
	StatusDivorced:  "divorced",
	StatusSeparated: "separated",
	StatusDeceased:  "deceased",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Active reports whether s is StatusActive.
func (s Status) Active() bool { return s == StatusActive }

// ParseStatus parses a status name. The empty string parses as active.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return StatusActive, nil
	}
	for st, name := range statusNames {
		if name == norm {
			return Status(st), nil
		}
	}
	return 0, fmt.Errorf("unknown relationship status %q", s)
}

func (s Status) MarshalText() ([]byte, error) {
	if s < StatusActive || s > StatusDeceased {
		return nil, fmt.Errorf("invalid relationship status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Member is a person in the tree. X and Y are the top-left corner of the
// member's card in canvas units. The remaining fields are descriptive and
// play no part in layout.
type Member struct {
	ID        ID      `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Gender    string  `json:"gender,omitempty"`
	BirthDate string  `json:"birth_date,omitempty"`
	DeathDate string  `json:"death_date,omitempty"`
}

// DisplayName joins the name parts, falling back to "#<id>".
func (m Member) DisplayName() string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return fmt.Sprintf("#%d", m.ID)
	}
	return name
}

// Lifespan formats birth and death dates as "1901 – 1975". Empty when
// neither is known.
func (m Member) Lifespan() string {
	switch {
	case m.BirthDate == "" && m.DeathDate == "":
		return ""
	case m.DeathDate == "":
		return "b. " + m.BirthDate
	case m.BirthDate == "":
		return "d. " + m.DeathDate
	}
	return m.BirthDate + " – " + m.DeathDate
}

// Relationship is a typed edge between two members. The pair (From, To,
// Kind) is unique within a snapshot.
type Relationship struct {
	ID      string  `json:"id,omitempty"`
	From    ID      `json:"from"`
	To      ID      `json:"to"`
	Kind    Kind    `json:"type"`
	SubType SubType `json:"sub_type,omitempty"`
	Status  Status  `json:"status,omitempty"`
}

// ParentChild returns a parent-child edge from parent to child.
func ParentChild(parent, child ID, sub SubType) Relationship {
	return Relationship{From: parent, To: child, Kind: KindParentChild, SubType: sub}
}

// Spouse returns a spouse edge between a and b.
func Spouse(a, b ID, sub SubType, status Status) Relationship {
	return Relationship{From: a, To: b, Kind: KindSpouse, SubType: sub, Status: status}
}

// Adopted returns an adoption edge from the adoptive parent to the child.
func Adopted(parent, child ID) Relationship {
	return Relationship{From: parent, To: child, Kind: KindAdopted}
}

// Guardian returns a guardianship edge from guardian to ward.
func Guardian(guardian, ward ID) Relationship {
	return Relationship{From: guardian, To: ward, Kind: KindGuardian}
}

// Other returns an undirected edge with a free-form label.
func Other(a, b ID, label string) Relationship {
	return Relationship{From: a, To: b, Kind: KindOther, SubType: SubType(label)}
}

// Endpoints returns (From, To) ordered so the smaller ID comes first.
func (r Relationship) Endpoints() (lo, hi ID) {
	if r.From <= r.To {
		return r.From, r.To
	}
	return r.To, r.From
}

// Snapshot is the complete member and relationship state handed to the
// engine. The engine never mutates a snapshot.
type Snapshot struct {
	Members       []Member       `json:"members"`
	Relationships []Relationship `json:"relationships"`
}

// Member returns the member with the given ID using a linear scan. Use an
// Index for repeated lookups.
func (s Snapshot) Member(id ID) (Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
