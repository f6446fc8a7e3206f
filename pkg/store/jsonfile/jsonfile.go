// Package jsonfile stores a family snapshot in a single JSON file.
//
// Every write rewrites the whole file through a temporary file and a
// rename, so readers never observe a partially written snapshot.
package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Store is a file-backed family store.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store for path. The file does not need to exist yet.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, kerrors.New(kerrors.ErrCodeInvalidInput, "snapshot path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, kerrors.Wrap(kerrors.ErrCodeStorage, err, "create %s", dir)
		}
	}
	return &Store{path: path}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Snapshot(ctx context.Context) (family.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return family.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) SavePosition(ctx context.Context, id family.ID, x, y float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(snap.Members, func(m family.Member) bool { return m.ID == id })
	if i < 0 {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	snap.Members[i].X, snap.Members[i].Y = x, y
	return s.write(snap)
}

// Import replaces the file contents with snap.
func (s *Store) Import(ctx context.Context, snap family.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(snap)
}

// DeleteMember removes a member and every relationship that references it.
func (s *Store) DeleteMember(ctx context.Context, id family.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return err
	}
	n := len(snap.Members)
	snap.Members = slices.DeleteFunc(snap.Members, func(m family.Member) bool { return m.ID == id })
	if len(snap.Members) == n {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	snap.Relationships = slices.DeleteFunc(snap.Relationships, func(r family.Relationship) bool {
		return r.From == id || r.To == id
	})
	return s.write(snap)
}

func (s *Store) Close() error { return nil }

func (s *Store) read() (family.Snapshot, error) {
	snap, err := family.ReadSnapshotFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeNotFound, err, "snapshot %s", s.path)
	}
	if err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "read snapshot")
	}
	return snap, nil
}

func (s *Store) write(snap family.Snapshot) error {
	data, err := family.MarshalSnapshot(snap)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "marshal snapshot")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kintree-*.json")
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "replace %s", s.path)
	}
	return nil
}
