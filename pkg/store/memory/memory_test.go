package memory

import (
	"context"
	"errors"
	"testing"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

func seed() family.Snapshot {
	return family.Snapshot{
		Members: []family.Member{{ID: 1}, {ID: 2}, {ID: 3}},
		Relationships: []family.Relationship{
			family.Spouse(1, 2, family.SubTypeNone, family.StatusActive),
			family.ParentChild(1, 3, family.SubTypeNone),
		},
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New(seed())

	if err := s.SavePosition(ctx, 2, 10, 20); err != nil {
		t.Fatalf("SavePosition: %v", err)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if m, _ := snap.Member(2); m.X != 10 || m.Y != 20 {
		t.Errorf("member 2 = %+v", m)
	}

	// The returned snapshot is a copy.
	snap.Members[0].X = 999
	again, _ := s.Snapshot(ctx)
	if again.Members[0].X == 999 {
		t.Error("Snapshot should return a copy")
	}
	if s.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", s.Writes())
	}
}

func TestStoreSavePositionErrors(t *testing.T) {
	ctx := context.Background()
	s := New(seed())

	if err := s.SavePosition(ctx, 42, 0, 0); !kerrors.Is(err, kerrors.ErrCodeMemberNotFound) {
		t.Errorf("unknown member error = %v", err)
	}

	boom := errors.New("boom")
	s.FailOn(1, boom)
	if err := s.SavePosition(ctx, 1, 0, 0); !errors.Is(err, boom) {
		t.Errorf("injected failure = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.SavePosition(cancelled, 2, 0, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v", err)
	}
}

func TestStoreDeleteMemberCascades(t *testing.T) {
	ctx := context.Background()
	s := New(seed())

	if err := s.DeleteMember(ctx, 1); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	snap, _ := s.Snapshot(ctx)
	if len(snap.Members) != 2 || len(snap.Relationships) != 0 {
		t.Errorf("after delete: %d members, %d relationships", len(snap.Members), len(snap.Relationships))
	}
	if err := s.DeleteMember(ctx, 1); !kerrors.Is(err, kerrors.ErrCodeMemberNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}
