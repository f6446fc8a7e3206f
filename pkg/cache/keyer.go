package cache

import (
	"github.com/matzehuels/kintree/pkg/layout"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the topology with the given hash.
	LayoutKey(snapshotHash string, opts layout.Options) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(snapshotHash string, opts layout.Options) string {
	return hashKey("layout", snapshotHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer. A shared Redis uses it
// to keep kintree entries in their own namespace.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, falling back to DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(snapshotHash string, opts layout.Options) string {
	return k.prefix + k.inner.LayoutKey(snapshotHash, opts)
}
