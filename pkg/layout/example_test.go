package layout_test

import (
	"fmt"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

func ExampleCompute() {
	snap := family.Snapshot{
		Members: []family.Member{{ID: 1}, {ID: 2}, {ID: 3}},
		Relationships: []family.Relationship{
			family.Spouse(1, 2, family.SubTypeLegal, family.StatusActive),
			family.ParentChild(1, 3, family.SubTypeBiological),
			family.ParentChild(2, 3, family.SubTypeBiological),
		},
	}

	pm := layout.Compute(family.NewIndex(snap), layout.DefaultOptions())
	for _, id := range pm.IDs() {
		fmt.Printf("%d: (%g, %g)\n", id, pm[id].X, pm[id].Y)
	}
	// Output:
	// 1: (20, 0)
	// 2: (220, 0)
	// 3: (120, 160)
}
