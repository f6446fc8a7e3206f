// Package layout computes canvas coordinates for every member of a family
// graph.
//
// # Algorithm
//
// [Compute] walks the tree top-down from its roots, one spouse cluster at
// a time. For each cluster it:
//
//  1. Collects the cluster's shared children: every child for which all
//     cluster members are recorded parents (see [family.Index.SharedChildren]).
//  2. Lays out each child's own spouse cluster one band lower, recursively,
//     collecting each child unit's horizontal center.
//  3. Centers the cluster over the span of those centers, or places it at
//     the next free horizontal slot when it has no children.
//  4. Advances a shared cursor past the wider of its own width and its
//     children's span, so sibling subtrees never overlap.
//
// When centering would push a cluster left of where its subtree started,
// the whole subtree is shifted right instead. Every subtree therefore owns
// a horizontal strip no other subtree intrudes on.
//
// Members unreachable from a root (parent-child cycles, children excluded
// by the shared-children rule) are laid out afterwards in ID order, one
// band below their deepest already placed parent.
//
// # Coordinates
//
// A [Position] is the top-left corner of a member's card. Band d starts at
// y = d × (CardHeight + VerticalGap). Within a cluster each member takes
// one slot of CardWidth + HorizontalGap, card centered in its slot.
//
// # Determinism
//
// Compute is a pure function of the index and options: roots, clusters and
// children are all visited in ascending ID order, so the same snapshot
// always yields the same [PositionMap].
package layout
