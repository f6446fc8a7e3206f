// Package store defines the collaborators the layout pipeline talks to and
// opens them from a DSN.
//
// A [Source] supplies the current member and relationship snapshot; a
// [PositionWriter] persists one member position at a time. Backends:
//
//   - memory:             in-process, for tests and demos
//   - file:<path.json>    a single JSON snapshot file
//   - sqlite:<path.db>    SQLite through GORM
//   - mongodb://host/?db= MongoDB
package store

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/store/jsonfile"
	"github.com/matzehuels/kintree/pkg/store/memory"
	"github.com/matzehuels/kintree/pkg/store/mongo"
	"github.com/matzehuels/kintree/pkg/store/sqlite"
)

// DefaultMongoDatabase is used when a MongoDB DSN names no database.
const DefaultMongoDatabase = "kintree"

// Source fetches the current snapshot.
type Source interface {
	Snapshot(ctx context.Context) (family.Snapshot, error)
}

// PositionWriter persists a single member position. Implementations must
// be safe for concurrent use.
type PositionWriter interface {
	SavePosition(ctx context.Context, id family.ID, x, y float64) error
}

// Store is a full backend.
type Store interface {
	Source
	PositionWriter
	// Import writes every member and relationship of a snapshot.
	Import(ctx context.Context, s family.Snapshot) error
	// DeleteMember removes a member and the relationships touching it.
	DeleteMember(ctx context.Context, id family.ID) error
	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*jsonfile.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*mongo.Store)(nil)
)

// Open returns the backend named by dsn. A bare path is treated as a JSON
// file unless it ends in .db or .sqlite.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch scheme, rest := splitDSN(dsn); scheme {
	case "memory":
		return memory.New(family.Snapshot{}), nil
	case "file":
		return jsonfile.New(rest)
	case "sqlite":
		return sqlite.Open(rest)
	case "mongodb", "mongodb+srv":
		uri, db, err := mongoTarget(dsn)
		if err != nil {
			return nil, err
		}
		return mongo.Open(ctx, uri, db)
	default:
		return nil, kerrors.New(kerrors.ErrCodeUnsupported, "unsupported store %q", dsn)
	}
}

func splitDSN(dsn string) (scheme, rest string) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", ""
	}
	if strings.HasPrefix(dsn, "mongodb://") {
		return "mongodb", dsn
	}
	if strings.HasPrefix(dsn, "mongodb+srv://") {
		return "mongodb+srv", dsn
	}
	if s, r, ok := strings.Cut(dsn, ":"); ok && len(s) > 1 {
		switch s {
		case "memory", "file", "sqlite":
			return s, r
		}
	}
	switch strings.ToLower(filepath.Ext(dsn)) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite", dsn
	case ".json":
		return "file", dsn
	}
	return "", dsn
}

// mongoTarget strips the db query parameter from a MongoDB URI.
func mongoTarget(dsn string) (uri, db string, err error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", "", kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "parse mongodb dsn")
	}
	q := u.Query()
	db = q.Get("db")
	q.Del("db")
	u.RawQuery = q.Encode()
	if db == "" {
		db = strings.Trim(u.Path, "/")
	}
	if db == "" {
		db = DefaultMongoDatabase
	}
	return u.String(), db, nil
}
