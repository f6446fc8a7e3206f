package sqlite

import (
	"github.com/matzehuels/kintree/pkg/family"
)

// memberRow is a member in the 'members' table.
type memberRow struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement:false"`
	X         float64 `gorm:"not null;default:0"`
	Y         float64 `gorm:"not null;default:0"`
	FirstName string
	LastName  string
	Gender    string
	BirthDate string
	DeathDate string
	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

func (memberRow) TableName() string { return "members" }

// relationshipRow is an edge in the 'relationships' table. The composite
// unique index enforces one edge per (from, to, type), and deleting either
// member removes the edge.
type relationshipRow struct {
	ID      string `gorm:"primaryKey"`
	FromID  uint64 `gorm:"not null;uniqueIndex:idx_relationship_pair,priority:1"`
	ToID    uint64 `gorm:"not null;uniqueIndex:idx_relationship_pair,priority:2;index"`
	Type    string `gorm:"not null;uniqueIndex:idx_relationship_pair,priority:3"`
	SubType string
	Status  string `gorm:"not null;default:active"`

	From memberRow `gorm:"foreignKey:FromID;constraint:OnDelete:CASCADE"`
	To   memberRow `gorm:"foreignKey:ToID;constraint:OnDelete:CASCADE"`
}

func (relationshipRow) TableName() string { return "relationships" }

func toMemberRow(m family.Member) memberRow {
	return memberRow{
		ID:        uint64(m.ID),
		X:         m.X,
		Y:         m.Y,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Gender:    m.Gender,
		BirthDate: m.BirthDate,
		DeathDate: m.DeathDate,
	}
}

func (r memberRow) member() family.Member {
	return family.Member{
		ID:        family.ID(r.ID),
		X:         r.X,
		Y:         r.Y,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		DeathDate: r.DeathDate,
	}
}

func toRelationshipRow(r family.Relationship) relationshipRow {
	return relationshipRow{
		ID:      r.ID,
		FromID:  uint64(r.From),
		ToID:    uint64(r.To),
		Type:    r.Kind.String(),
		SubType: string(r.SubType),
		Status:  r.Status.String(),
	}
}

func (r relationshipRow) relationship() (family.Relationship, error) {
	kind, err := family.ParseKind(r.Type)
	if err != nil {
		return family.Relationship{}, err
	}
	status, err := family.ParseStatus(r.Status)
	if err != nil {
		return family.Relationship{}, err
	}
	return family.Relationship{
		ID:      r.ID,
		From:    family.ID(r.FromID),
		To:      family.ID(r.ToID),
		Kind:    kind,
		SubType: family.SubType(r.SubType),
		Status:  status,
	}, nil
}
