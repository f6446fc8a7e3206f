package store

import (
	"context"
	"path/filepath"
	"testing"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/store/jsonfile"
	"github.com/matzehuels/kintree/pkg/store/memory"
	"github.com/matzehuels/kintree/pkg/store/sqlite"
)

func TestSplitDSN(t *testing.T) {
	tests := []struct {
		dsn, scheme, rest string
	}{
		{"memory:", "memory", ""},
		{"file:tree.json", "file", "tree.json"},
		{"sqlite:/var/lib/kintree.db", "sqlite", "/var/lib/kintree.db"},
		{"mongodb://localhost:27017/?db=fam", "mongodb", "mongodb://localhost:27017/?db=fam"},
		{"family.json", "file", "family.json"},
		{"family.sqlite", "sqlite", "family.sqlite"},
		{"C:/trees/family.json", "file", "C:/trees/family.json"},
		{"redis://localhost", "", "redis://localhost"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			scheme, rest := splitDSN(tt.dsn)
			if scheme != tt.scheme || rest != tt.rest {
				t.Errorf("splitDSN(%q) = (%q, %q), want (%q, %q)", tt.dsn, scheme, rest, tt.scheme, tt.rest)
			}
		})
	}
}

func TestMongoTarget(t *testing.T) {
	tests := []struct {
		dsn, uri, db string
	}{
		{"mongodb://localhost:27017/?db=fam", "mongodb://localhost:27017/", "fam"},
		{"mongodb://localhost:27017/trees", "mongodb://localhost:27017/trees", "trees"},
		{"mongodb://localhost:27017", "mongodb://localhost:27017", DefaultMongoDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			uri, db, err := mongoTarget(tt.dsn)
			if err != nil {
				t.Fatalf("mongoTarget: %v", err)
			}
			if uri != tt.uri || db != tt.db {
				t.Errorf("mongoTarget(%q) = (%q, %q), want (%q, %q)", tt.dsn, uri, db, tt.uri, tt.db)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		dsn   string
		check func(Store) bool
	}{
		{"memory:", func(s Store) bool { _, ok := s.(*memory.Store); return ok }},
		{"file:" + filepath.Join(dir, "a.json"), func(s Store) bool { _, ok := s.(*jsonfile.Store); return ok }},
		{filepath.Join(dir, "b.json"), func(s Store) bool { _, ok := s.(*jsonfile.Store); return ok }},
		{"sqlite:" + filepath.Join(dir, "c.db"), func(s Store) bool { _, ok := s.(*sqlite.Store); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			s, err := Open(ctx, tt.dsn)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()
			if !tt.check(s) {
				t.Errorf("Open(%q) returned %T", tt.dsn, s)
			}
		})
	}

	if _, err := Open(ctx, "redis://localhost"); !kerrors.Is(err, kerrors.ErrCodeUnsupported) {
		t.Errorf("unsupported dsn error = %v", err)
	}
}
