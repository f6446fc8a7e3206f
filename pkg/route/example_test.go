package route_test

import (
	"fmt"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/route"
)

func ExampleRouter_RouteAll() {
	members := []family.Member{
		{ID: 1, X: 20, Y: 0},
		{ID: 2, X: 220, Y: 0},
		{ID: 3, X: 120, Y: 160},
	}
	rels := []family.Relationship{
		family.Spouse(1, 2, family.SubTypeLegal, family.StatusActive),
		family.Spouse(2, 1, family.SubTypeLegal, family.StatusActive),
		family.ParentChild(1, 3, family.SubTypeBiological),
		family.ParentChild(2, 3, family.SubTypeBiological),
	}

	for _, g := range route.NewRouter(members, rels, route.DefaultOptions()).RouteAll() {
		fmt.Printf("%s (%g,%g) -> (%g,%g)\n", g.Key, g.Start.X, g.Start.Y, g.End.X, g.End.Y)
	}
	// Output:
	// spouse:1:2 (100,40) -> (300,40)
	// parent-child:1:2:3 (200,80) -> (200,160)
}
