package family

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// MarshalSnapshot converts a snapshot to indented JSON.
// Members are sorted by ID and relationships by (From, To, Kind) so equal
// snapshots always serialize to equal bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot writes s as JSON to w.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Canonical(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteSnapshotFile writes s to a JSON file with 0644 permissions.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(s, f)
}

// ReadSnapshot decodes a JSON snapshot from r. Relationship kinds and
// statuses are parsed by name; unknown names are decode errors.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}

// ReadSnapshotFile reads a JSON snapshot file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// Canonical returns a copy of s with members sorted by ID and
// relationships sorted by (From, To, Kind).
func Canonical(s Snapshot) Snapshot {
	out := Snapshot{
		Members:       slices.Clone(s.Members),
		Relationships: slices.Clone(s.Relationships),
	}
	if out.Members == nil {
		out.Members = []Member{}
	}
	if out.Relationships == nil {
		out.Relationships = []Relationship{}
	}
	slices.SortStableFunc(out.Members, func(a, b Member) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(out.Relationships, func(a, b Relationship) int {
		return cmp.Or(
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.To, b.To),
			cmp.Compare(a.Kind, b.Kind),
		)
	})
	return out
}
