// Package sqlite stores members and relationships in SQLite through GORM.
//
// The schema mirrors the family model: a members table keyed by member ID
// and a relationships table with a unique (from_id, to_id, type) index and
// cascading foreign keys to both endpoints.
package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Store is a GORM-backed family store.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema. Foreign keys are switched on so member deletion cascades.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStorage, err, "open %s", path)
	}
	if err := db.AutoMigrate(&memberRow{}, &relationshipRow{}); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStorage, err, "migrate schema")
	}
	return &Store{db: db}, nil
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (s *Store) Snapshot(ctx context.Context) (family.Snapshot, error) {
	var members []memberRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&members).Error; err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "list members")
	}
	var rels []relationshipRow
	err := s.db.WithContext(ctx).Order("from_id ASC, to_id ASC, type ASC").Find(&rels).Error
	if err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "list relationships")
	}

	snap := family.Snapshot{
		Members:       make([]family.Member, len(members)),
		Relationships: make([]family.Relationship, 0, len(rels)),
	}
	for i, m := range members {
		snap.Members[i] = m.member()
	}
	for _, r := range rels {
		rel, err := r.relationship()
		if err != nil {
			return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "relationship %s", r.ID)
		}
		snap.Relationships = append(snap.Relationships, rel)
	}
	return snap, nil
}

func (s *Store) SavePosition(ctx context.Context, id family.ID, x, y float64) error {
	res := s.db.WithContext(ctx).Model(&memberRow{}).
		Where("id = ?", uint64(id)).
		Updates(map[string]any{"x": x, "y": y})
	if res.Error != nil {
		err := kerrors.Wrap(kerrors.ErrCodeStorage, res.Error, "update member %d", id)
		if strings.Contains(res.Error.Error(), "database is locked") {
			return kerrors.Retryable(err)
		}
		return err
	}
	if res.RowsAffected == 0 {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	return nil
}

// Import upserts every member and relationship of snap in one transaction.
// Relationships without an ID get a fresh UUID; an existing edge with the
// same (from, to, type) has its subtype and status updated.
func (s *Store) Import(ctx context.Context, snap family.Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range snap.Members {
			row := toMemberRow(m)
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"x", "y", "first_name", "last_name", "gender", "birth_date", "death_date", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return kerrors.Wrap(kerrors.ErrCodeStorage, err, "import member %d", m.ID)
			}
		}
		for _, r := range snap.Relationships {
			row := toRelationshipRow(r)
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "from_id"}, {Name: "to_id"}, {Name: "type"}},
				DoUpdates: clause.AssignmentColumns([]string{"sub_type", "status"}),
			}).Create(&row).Error
			if err != nil {
				return kerrors.Wrap(kerrors.ErrCodeStorage, err, "import relationship %d->%d", r.From, r.To)
			}
		}
		return nil
	})
}

// AddRelationship inserts a single edge. A second edge with the same
// (from, to, type) is rejected.
func (s *Store) AddRelationship(ctx context.Context, r family.Relationship) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	row := toRelationshipRow(r)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return "", kerrors.Wrap(kerrors.ErrCodeDuplicateRelationship, err, "%s %d->%d", r.Kind, r.From, r.To)
	case err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return "", kerrors.Wrap(kerrors.ErrCodeMemberNotFound, err, "%s %d->%d", r.Kind, r.From, r.To)
	case err != nil:
		return "", kerrors.Wrap(kerrors.ErrCodeStorage, err, "insert relationship")
	}
	return row.ID, nil
}

// DeleteMember removes a member; its relationships go with it.
func (s *Store) DeleteMember(ctx context.Context, id family.ID) error {
	res := s.db.WithContext(ctx).Delete(&memberRow{}, uint64(id))
	if res.Error != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, res.Error, "delete member %d", id)
	}
	if res.RowsAffected == 0 {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
