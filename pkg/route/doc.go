// Package route turns positioned members and their relationships into
// drawable line geometry.
//
// A [Router] is built once per render pass from the members (with their
// current positions) and the relationship list. [Router.Route] resolves a
// single relationship into a [Geometry]: two anchor points, a [Style], an
// optional [Arrow] at the target and an optional status label.
// [Router.RouteAll] routes every relationship and drops edges that share a
// dedup [Geometry.Key], so a spouse pair recorded in both directions, or
// two parents of the same child, draw a single line.
//
// # Anchors
//
//   - spouse and other: card center to card center
//   - parent-child, adopted, guardian: parent bottom-center to child
//     top-center
//   - parent-child where a second parent of the same child is an active
//     spouse on roughly the same row: the midpoint of both parents'
//     bottom-centers to the child's top-center
//
// Edges whose endpoints are missing from the member set, and edges from a
// member to itself, are skipped rather than failing the pass.
package route
