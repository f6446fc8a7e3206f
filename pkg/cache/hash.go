package cache

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/kintree/pkg/family"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

type topologyEdge struct {
	From family.ID   `json:"f"`
	To   family.ID   `json:"t"`
	Kind family.Kind `json:"k"`
}

// SnapshotHash hashes the parts of a snapshot that influence layout:
// member IDs and (from, to, kind) edges. Positions, names, subtypes and
// statuses are ignored, as is input order.
func SnapshotHash(s family.Snapshot) string {
	ids := make([]family.ID, len(s.Members))
	for i, m := range s.Members {
		ids[i] = m.ID
	}
	slices.Sort(ids)

	edges := make([]topologyEdge, len(s.Relationships))
	for i, r := range s.Relationships {
		edges[i] = topologyEdge{From: r.From, To: r.To, Kind: r.Kind}
	}
	slices.SortFunc(edges, func(a, b topologyEdge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To), cmp.Compare(a.Kind, b.Kind))
	})

	data, _ := json.Marshal(struct {
		Members []family.ID    `json:"m"`
		Edges   []topologyEdge `json:"e"`
	}{ids, edges})
	return Hash(data)
}
