package family

import (
	"testing"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

func TestRelationshipValidate(t *testing.T) {
	tests := []struct {
		name    string
		rel     Relationship
		wantErr bool
	}{
		{"biological parent", ParentChild(1, 2, SubTypeBiological), false},
		{"step parent", ParentChild(1, 2, SubTypeStep), false},
		{"legal spouse divorced", Spouse(1, 2, SubTypeLegal, StatusDivorced), false},
		{"common-law spouse", Spouse(1, 2, SubTypeCommonLaw, StatusActive), false},
		{"adopted", Adopted(1, 2), false},
		{"guardian", Guardian(1, 2), false},
		{"other with label", Other(1, 2, "godparent"), false},
		{"spouse with parent subtype", Spouse(1, 2, SubTypeStep, StatusActive), true},
		{"parent with spouse subtype", ParentChild(1, 2, SubTypeLegal), true},
		{"adopted with subtype", Relationship{From: 1, To: 2, Kind: KindAdopted, SubType: SubTypeFoster}, true},
		{"divorced parent", Relationship{From: 1, To: 2, Kind: KindParentChild, Status: StatusDivorced}, true},
		{"unknown kind", Relationship{From: 1, To: 2, Kind: Kind(42)}, true},
		{"unknown status", Relationship{From: 1, To: 2, Kind: KindSpouse, Status: Status(9)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rel.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !kerrors.Is(err, kerrors.ErrCodeInvalidRelationship) {
				t.Errorf("error code = %q, want %q", kerrors.GetCode(err), kerrors.ErrCodeInvalidRelationship)
			}
		})
	}
}

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		wantCode kerrors.Code
	}{
		{
			name: "valid",
			snap: Snapshot{
				Members:       members(1, 2),
				Relationships: []Relationship{Spouse(1, 2, SubTypeNone, StatusActive)},
			},
		},
		{
			name: "dangling member",
			snap: Snapshot{
				Members:       members(1),
				Relationships: []Relationship{ParentChild(1, 2, SubTypeNone)},
			},
			wantCode: kerrors.ErrCodeMemberNotFound,
		},
		{
			name: "duplicate edge",
			snap: Snapshot{
				Members: members(1, 2),
				Relationships: []Relationship{
					ParentChild(1, 2, SubTypeNone),
					ParentChild(1, 2, SubTypeBiological),
				},
			},
			wantCode: kerrors.ErrCodeDuplicateRelationship,
		},
		{
			name: "self reference",
			snap: Snapshot{
				Members:       members(1),
				Relationships: []Relationship{ParentChild(1, 1, SubTypeNone)},
			},
			wantCode: kerrors.ErrCodeInvalidRelationship,
		},
		{
			name:     "duplicate member",
			snap:     Snapshot{Members: members(1, 1)},
			wantCode: kerrors.ErrCodeInvalidInput,
		},
		{
			name:     "control character in name",
			snap:     Snapshot{Members: []Member{{ID: 1, FirstName: "Ada\tL"}}},
			wantCode: kerrors.ErrCodeInvalidInput,
		},
		{
			name:     "malformed birth date",
			snap:     Snapshot{Members: []Member{{ID: 1, BirthDate: "10/12/1815"}}},
			wantCode: kerrors.ErrCodeInvalidInput,
		},
		{
			name:     "partial dates",
			snap:     Snapshot{Members: []Member{{ID: 1, BirthDate: "1815", DeathDate: "1852-11"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.snap)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !kerrors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateSnapshot_ReverseSpouseIsNotDuplicate(t *testing.T) {
	snap := Snapshot{
		Members: members(1, 2),
		Relationships: []Relationship{
			Spouse(1, 2, SubTypeNone, StatusActive),
			Spouse(2, 1, SubTypeNone, StatusActive),
		},
	}
	if err := Validate(snap); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
