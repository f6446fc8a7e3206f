package family

import (
	"errors"
	"slices"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// Validate checks that the kind, subtype and status form a legal
// combination. It does not look at the endpoints.
func (r Relationship) Validate() error {
	if !r.Kind.Valid() {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship, "unknown relationship kind %d", int(r.Kind))
	}
	if allowed, ok := subTypes[r.Kind]; ok && !slices.Contains(allowed, r.SubType) {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship,
			"subtype %q is not valid for %s relationships", r.SubType, r.Kind)
	}
	if r.Status < StatusActive || r.Status > StatusDeceased {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship, "unknown status %d", int(r.Status))
	}
	if r.Kind != KindSpouse && !r.Status.Active() {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship,
			"status %s only applies to spouse relationships, not %s", r.Status, r.Kind)
	}
	return nil
}

type edgeKey struct {
	from, to ID
	kind     Kind
}

// Validate checks a snapshot the way the persistence layer would:
// unique member IDs, no dangling or self-referencing edges, legal
// kind/subtype/status combinations and unique (From, To, Kind) triples.
// All problems are reported, joined with errors.Join.
//
// The layout engine does not require a valid snapshot.
func Validate(s Snapshot) error {
	var errs []error

	ids := make(map[ID]bool, len(s.Members))
	for _, m := range s.Members {
		if ids[m.ID] {
			errs = append(errs, kerrors.New(kerrors.ErrCodeInvalidInput, "duplicate member id %d", m.ID))
		}
		ids[m.ID] = true
		if err := validateMember(m); err != nil {
			errs = append(errs, err)
		}
	}

	seen := make(map[edgeKey]bool, len(s.Relationships))
	for i, r := range s.Relationships {
		if err := r.Validate(); err != nil {
			errs = append(errs, kerrors.Wrap(kerrors.ErrCodeInvalidRelationship, err, "relationship %d", i))
			continue
		}
		if !ids[r.From] {
			errs = append(errs, kerrors.New(kerrors.ErrCodeMemberNotFound, "relationship %d: unknown member %d", i, r.From))
		}
		if !ids[r.To] {
			errs = append(errs, kerrors.New(kerrors.ErrCodeMemberNotFound, "relationship %d: unknown member %d", i, r.To))
		}
		if r.From == r.To {
			errs = append(errs, kerrors.New(kerrors.ErrCodeInvalidRelationship, "relationship %d: member %d related to itself", i, r.From))
		}
		if r.Kind == KindOther {
			if err := kerrors.ValidateText("label", string(r.SubType)); err != nil {
				errs = append(errs, kerrors.Wrap(kerrors.ErrCodeInvalidRelationship, err, "relationship %d", i))
			}
		}
		key := edgeKey{r.From, r.To, r.Kind}
		if seen[key] {
			errs = append(errs, kerrors.New(kerrors.ErrCodeDuplicateRelationship,
				"relationship %d: duplicate %s edge %d -> %d", i, r.Kind, r.From, r.To))
		}
		seen[key] = true
	}

	return errors.Join(errs...)
}

func validateMember(m Member) error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"first_name", m.FirstName},
		{"last_name", m.LastName},
		{"gender", m.Gender},
	} {
		if err := kerrors.ValidateText(f.name, f.value); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range []struct{ name, value string }{
		{"birth_date", m.BirthDate},
		{"death_date", m.DeathDate},
	} {
		if err := kerrors.ValidateDate(f.name, f.value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return kerrors.Wrap(kerrors.ErrCodeInvalidInput, errors.Join(errs...), "member %d", m.ID)
}
