// Package nodelink renders family trees as Graphviz node-link diagrams.
//
// It is an alternative to the canvas renderer in [svg] for cases where
// Graphviz's own placement is preferred over the stored positions:
//
//	dot := nodelink.ToDOT(ix, nodelink.Options{Detailed: true})
//	out, err := nodelink.RenderSVG(ctx, dot)
//
// Spouse clusters are pinned to one rank, spouse and other edges are
// undirected and do not constrain ranking, and non-active spouse edges
// carry their status as a label.
//
// Rendering uses [github.com/goccy/go-graphviz] in-process; no Graphviz
// installation is needed.
//
// [svg]: github.com/matzehuels/kintree/pkg/render/svg
package nodelink
