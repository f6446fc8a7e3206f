// Package render groups the kintree output formats.
//
// # Canvas
//
// The [svg] subpackage draws member cards at their layout positions and the
// relationship lines produced by package route. Cards are tinted by
// generation and deceased members get a muted border.
//
//	lines := route.NewRouterFromLayout(snap, pm, route.DefaultOptions()).RouteAll()
//	out := svg.Render(pm.Apply(snap.Members), lines, svg.WithGenerations(gens))
//
// # Node-link
//
// The [nodelink] subpackage emits Graphviz DOT, keeping each spouse cluster
// on one rank, and renders it to SVG through an embedded Graphviz.
//
// [svg]: github.com/matzehuels/kintree/pkg/render/svg
// [nodelink]: github.com/matzehuels/kintree/pkg/render/nodelink
package render
