package mongo

import "github.com/matzehuels/kintree/pkg/family"

type memberDoc struct {
	ID        int64   `bson:"_id"`
	X         float64 `bson:"x"`
	Y         float64 `bson:"y"`
	FirstName string  `bson:"first_name,omitempty"`
	LastName  string  `bson:"last_name,omitempty"`
	Gender    string  `bson:"gender,omitempty"`
	BirthDate string  `bson:"birth_date,omitempty"`
	DeathDate string  `bson:"death_date,omitempty"`
}

type relationshipDoc struct {
	ID      string `bson:"_id"`
	From    int64  `bson:"from"`
	To      int64  `bson:"to"`
	Type    string `bson:"type"`
	SubType string `bson:"sub_type,omitempty"`
	Status  string `bson:"status"`
}

func toMemberDoc(m family.Member) memberDoc {
	return memberDoc{
		ID:        int64(m.ID),
		X:         m.X,
		Y:         m.Y,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Gender:    m.Gender,
		BirthDate: m.BirthDate,
		DeathDate: m.DeathDate,
	}
}

func (d memberDoc) member() family.Member {
	return family.Member{
		ID:        family.ID(d.ID),
		X:         d.X,
		Y:         d.Y,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Gender:    d.Gender,
		BirthDate: d.BirthDate,
		DeathDate: d.DeathDate,
	}
}

func toRelationshipDoc(r family.Relationship) relationshipDoc {
	return relationshipDoc{
		ID:      r.ID,
		From:    int64(r.From),
		To:      int64(r.To),
		Type:    r.Kind.String(),
		SubType: string(r.SubType),
		Status:  r.Status.String(),
	}
}

func (d relationshipDoc) relationship() (family.Relationship, error) {
	kind, err := family.ParseKind(d.Type)
	if err != nil {
		return family.Relationship{}, err
	}
	status, err := family.ParseStatus(d.Status)
	if err != nil {
		return family.Relationship{}, err
	}
	return family.Relationship{
		ID:      d.ID,
		From:    family.ID(d.From),
		To:      family.ID(d.To),
		Kind:    kind,
		SubType: family.SubType(d.SubType),
		Status:  status,
	}, nil
}
