// Package family models a family tree as a graph of members and typed
// relationships, and provides the read-only graph views the layout engine
// is built on.
//
// # Overview
//
// A [Snapshot] is the full set of [Member] and [Relationship] records at a
// point in time. [NewIndex] turns a snapshot into adjacency lookups
// (children, parents, spouses) keyed by member ID. Everything downstream
// (generations, spouse clusters, layout, routing) works from an [Index].
//
//	ix := family.NewIndex(snap)
//	ix.Children(1)        // parent-child targets of member 1
//	ix.SpouseCluster(1)   // member 1 plus everyone married into its cluster
//	family.AssignGenerations(ix)
//
// # Relationship Kinds
//
// [Kind] is a closed set: [KindParentChild], [KindSpouse], [KindAdopted],
// [KindGuardian] and [KindOther]. Each kind accepts only its own subtypes
// and only spouse edges carry a non-active [Status]. [Relationship.Validate]
// enforces those combinations; the constructors ([ParentChild], [Spouse],
// ...) produce only legal values.
//
// # Malformed Data
//
// The index never fails. Self edges and edges that point at unknown members
// are dropped and counted ([Index.Dropped]); cycles in parent-child data are tolerated
// by every traversal in this package through explicit visited sets. Use
// [Validate] when strict checking is wanted, for example before importing
// a snapshot into a store.
//
// # Concurrency
//
// An Index is immutable after construction and safe for concurrent reads.
package family
