// Package svg draws a laid-out family tree as a standalone SVG document.
//
// Cards are drawn at the member positions (top-left corner) and lines come
// from [route.Geometry] values, so the output always matches what
// [route.Router.RouteAll] produced:
//
//	geoms := route.NewRouter(members, rels, route.DefaultOptions()).RouteAll()
//	doc := svg.Render(members, geoms, svg.WithGenerations(gens))
//
// [route.Geometry]: github.com/matzehuels/kintree/pkg/route#Geometry
// [route.Router.RouteAll]: github.com/matzehuels/kintree/pkg/route#Router.RouteAll
package svg
