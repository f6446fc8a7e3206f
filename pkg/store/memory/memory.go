// Package memory provides an in-process family store for tests and demos.
package memory

import (
	"context"
	"slices"
	"sync"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Store keeps a snapshot in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	snap     family.Snapshot
	failures map[family.ID]error
	writes   int
}

// New returns a store seeded with a copy of s.
func New(s family.Snapshot) *Store {
	return &Store{snap: clone(s), failures: make(map[family.ID]error)}
}

func (s *Store) Snapshot(ctx context.Context) (family.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return family.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snap), nil
}

func (s *Store) SavePosition(ctx context.Context, id family.ID, x, y float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failures[id]; ok {
		return err
	}
	i := slices.IndexFunc(s.snap.Members, func(m family.Member) bool { return m.ID == id })
	if i < 0 {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	s.snap.Members[i].X, s.snap.Members[i].Y = x, y
	s.writes++
	return nil
}

// Import replaces the stored snapshot.
func (s *Store) Import(ctx context.Context, snap family.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = clone(snap)
	return nil
}

// DeleteMember removes a member together with every relationship that
// references it.
func (s *Store) DeleteMember(ctx context.Context, id family.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.snap.Members)
	s.snap.Members = slices.DeleteFunc(s.snap.Members, func(m family.Member) bool { return m.ID == id })
	if len(s.snap.Members) == n {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	s.snap.Relationships = slices.DeleteFunc(s.snap.Relationships, func(r family.Relationship) bool {
		return r.From == id || r.To == id
	})
	return nil
}

// FailOn makes every later SavePosition for id return err.
func (s *Store) FailOn(id family.ID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = err
}

// Writes returns the number of successful position writes.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) Close() error { return nil }

func clone(s family.Snapshot) family.Snapshot {
	return family.Snapshot{
		Members:       slices.Clone(s.Members),
		Relationships: slices.Clone(s.Relationships),
	}
}
