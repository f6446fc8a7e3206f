// Package pkg provides the core libraries for kintree family tree layout.
//
// # Overview
//
// Kintree places the members of a family tree on a canvas: each generation
// gets its own horizontal band, spouses sit side by side, and parents are
// centered over their children. The pkg directory is organized into:
//
//  1. [family] - Members, typed relationships, the graph index, generations
//     and spouse clusters
//  2. [layout] - The recursive allocator that turns an index into positions
//  3. [route] - Line geometry, styles and labels for every relationship
//  4. [render] - SVG and Graphviz output
//  5. [store] and [cache] - Where snapshots come from and where layouts go
//  6. [pipeline] - Orchestration (fetch → layout → flush → render)
//
// # Architecture
//
// The typical data flow:
//
//	Store (JSON file, SQLite, MongoDB)
//	         ↓
//	    [family] Index + Generations
//	         ↓
//	    [layout] PositionMap  ←→  [cache]
//	         ↓
//	    changed positions written back one member at a time
//	         ↓
//	    [route] geometry → [render] SVG / DOT
//
// # Quick Start
//
// Lay out a snapshot and route its relationships:
//
//	import (
//	    "github.com/matzehuels/kintree/pkg/family"
//	    "github.com/matzehuels/kintree/pkg/layout"
//	    "github.com/matzehuels/kintree/pkg/route"
//	)
//
//	snap, _ := family.ReadSnapshotFile("family.json")
//	ix := family.NewIndex(snap)
//	pm := layout.Compute(ix, layout.DefaultOptions())
//	lines := route.NewRouterFromLayout(snap, pm, route.DefaultOptions()).RouteAll()
//
// [family]: github.com/matzehuels/kintree/pkg/family
// [layout]: github.com/matzehuels/kintree/pkg/layout
// [route]: github.com/matzehuels/kintree/pkg/route
// [render]: github.com/matzehuels/kintree/pkg/render
// [store]: github.com/matzehuels/kintree/pkg/store
// [cache]: github.com/matzehuels/kintree/pkg/cache
// [pipeline]: github.com/matzehuels/kintree/pkg/pipeline
package pkg
