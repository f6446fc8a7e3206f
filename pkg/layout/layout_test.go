package layout

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/kintree/pkg/family"
)

func buildIndex(ids []family.ID, rels ...family.Relationship) *family.Index {
	ms := make([]family.Member, len(ids))
	for i, id := range ids {
		ms[i] = family.Member{ID: id}
	}
	return family.NewIndex(family.Snapshot{Members: ms, Relationships: rels})
}

func centerX(p Position) float64 { return p.X + DefaultCardWidth/2 }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func depthOf(p Position) int {
	return int(math.Round(p.Y / (DefaultCardHeight + DefaultVerticalGap)))
}

func TestCompute_CoupleWithChild(t *testing.T) {
	ix := buildIndex([]family.ID{1, 2, 3},
		family.Spouse(1, 2, family.SubTypeLegal, family.StatusActive),
		family.ParentChild(1, 3, family.SubTypeBiological),
		family.ParentChild(2, 3, family.SubTypeBiological),
	)

	pm := Compute(ix, DefaultOptions())

	if len(pm) != 3 {
		t.Fatalf("positioned %d members, want 3", len(pm))
	}
	if depthOf(pm[1]) != 0 || depthOf(pm[2]) != 0 || depthOf(pm[3]) != 1 {
		t.Errorf("depths = %d/%d/%d, want 0/0/1", depthOf(pm[1]), depthOf(pm[2]), depthOf(pm[3]))
	}
	coupleCenter := (centerX(pm[1]) + centerX(pm[2])) / 2
	if !approx(coupleCenter, centerX(pm[3])) {
		t.Errorf("couple center = %g, child center = %g", coupleCenter, centerX(pm[3]))
	}
	if pm[1].X >= pm[2].X {
		t.Errorf("spouses should be ordered by ID left to right: %v, %v", pm[1], pm[2])
	}
	if !approx(pm[2].X-pm[1].X, DefaultCardWidth+DefaultHorizontalGap) {
		t.Errorf("spouses should be adjacent, got dx = %g", pm[2].X-pm[1].X)
	}
	if pm[1].X < 0 || pm[3].X < 0 {
		t.Errorf("layout should not extend left of the origin: %v", pm)
	}
}

func TestCompute_SingleParentCentered(t *testing.T) {
	ix := buildIndex([]family.ID{1, 2}, family.ParentChild(1, 2, family.SubTypeNone))

	pm := Compute(ix, DefaultOptions())

	if !approx(pm[1].X, pm[2].X) {
		t.Errorf("parent x = %g, child x = %g, want equal", pm[1].X, pm[2].X)
	}
	if pm[2].Y <= pm[1].Y {
		t.Errorf("child should sit below parent: %v, %v", pm[1], pm[2])
	}
}

func TestCompute_ParentCenteredOverSeveralChildren(t *testing.T) {
	ix := buildIndex([]family.ID{1, 2, 3, 4},
		family.ParentChild(1, 2, family.SubTypeNone),
		family.ParentChild(1, 3, family.SubTypeNone),
		family.ParentChild(1, 4, family.SubTypeNone),
	)

	pm := Compute(ix, DefaultOptions())

	mid := (centerX(pm[2]) + centerX(pm[4])) / 2
	if !approx(centerX(pm[1]), mid) {
		t.Errorf("parent center = %g, want %g", centerX(pm[1]), mid)
	}
	if !(pm[2].X < pm[3].X && pm[3].X < pm[4].X) {
		t.Errorf("children should be ordered by ID: %v %v %v", pm[2], pm[3], pm[4])
	}
}

func TestCompute_IntersectionRule(t *testing.T) {
	// A(1) is parent of X(3) and Y(4); B(2) is parent of X only.
	rels := []family.Relationship{
		family.ParentChild(1, 3, family.SubTypeNone),
		family.ParentChild(1, 4, family.SubTypeNone),
		family.ParentChild(2, 3, family.SubTypeNone),
	}

	t.Run("separate parents", func(t *testing.T) {
		pm := Compute(buildIndex([]family.ID{1, 2, 3, 4}, rels...), DefaultOptions())

		mid := (centerX(pm[3]) + centerX(pm[4])) / 2
		if !approx(centerX(pm[1]), mid) {
			t.Errorf("A center = %g, want centered over X and Y at %g", centerX(pm[1]), mid)
		}
		if depthOf(pm[3]) != 1 || depthOf(pm[4]) != 1 {
			t.Errorf("X and Y should be one band below A: %v %v", pm[3], pm[4])
		}
		if pm[2].X <= pm[4].X {
			t.Errorf("B should be placed after A's subtree, got B=%v Y=%v", pm[2], pm[4])
		}
	})

	t.Run("married parents", func(t *testing.T) {
		married := append([]family.Relationship{family.Spouse(1, 2, family.SubTypeNone, family.StatusActive)}, rels...)
		pm := Compute(buildIndex([]family.ID{1, 2, 3, 4}, married...), DefaultOptions())

		coupleCenter := (centerX(pm[1]) + centerX(pm[2])) / 2
		if !approx(coupleCenter, centerX(pm[3])) {
			t.Errorf("couple should center over shared child X: %g vs %g", coupleCenter, centerX(pm[3]))
		}
		if depthOf(pm[4]) != 1 {
			t.Errorf("Y depth = %d, want 1", depthOf(pm[4]))
		}
		if pm[4].X < pm[2].X+DefaultCardWidth {
			t.Errorf("Y should not be pulled under the couple: Y=%v B=%v", pm[4], pm[2])
		}
	})
}

func TestCompute_Cycle(t *testing.T) {
	ix := buildIndex([]family.ID{1, 2},
		family.ParentChild(1, 2, family.SubTypeNone),
		family.ParentChild(2, 1, family.SubTypeNone),
	)

	pm := Compute(ix, DefaultOptions())

	if len(pm) != 2 {
		t.Fatalf("positioned %d members, want 2", len(pm))
	}
	if pm[1].Y == pm[2].Y {
		t.Errorf("cycle members should land in different bands: %v", pm)
	}
}

func TestCompute_SelfReference(t *testing.T) {
	ix := buildIndex([]family.ID{1},
		family.ParentChild(1, 1, family.SubTypeNone),
		family.Spouse(1, 1, family.SubTypeNone, family.StatusActive),
	)
	pm := Compute(ix, DefaultOptions())
	if _, ok := pm[1]; !ok {
		t.Error("self-referencing member should still be positioned")
	}
}

func TestCompute_IsolatedMembers(t *testing.T) {
	ix := buildIndex([]family.ID{3, 1, 2})

	pm := Compute(ix, DefaultOptions())

	slot := DefaultCardWidth + DefaultHorizontalGap
	for i, id := range []family.ID{1, 2, 3} {
		want := Position{X: float64(i)*slot + DefaultHorizontalGap/2, Y: 0}
		if !pm[id].Equal(want) {
			t.Errorf("member %d at %v, want %v", id, pm[id], want)
		}
	}
}

func TestCompute_SpouseWithParentsElsewhere(t *testing.T) {
	// 1 (root) married to 2, whose parents are 3 and 4.
	ix := buildIndex([]family.ID{1, 2, 3, 4},
		family.Spouse(1, 2, family.SubTypeNone, family.StatusActive),
		family.Spouse(3, 4, family.SubTypeNone, family.StatusActive),
		family.ParentChild(3, 2, family.SubTypeNone),
		family.ParentChild(4, 2, family.SubTypeNone),
	)

	pm := Compute(ix, DefaultOptions())

	if len(pm) != 4 {
		t.Fatalf("positioned %d members, want 4", len(pm))
	}
	if pm[1].Y != pm[2].Y {
		t.Errorf("spouses should share a band: %v %v", pm[1], pm[2])
	}
	assertNoOverlap(t, pm)
}

func TestCompute_Origin(t *testing.T) {
	ix := buildIndex([]family.ID{1, 2}, family.ParentChild(1, 2, family.SubTypeNone))
	base := Compute(ix, DefaultOptions())

	opts := DefaultOptions()
	opts.OriginX, opts.OriginY = 100, 50
	shifted := Compute(ix, opts)

	for id, p := range base {
		want := Position{X: p.X + 100, Y: p.Y + 50}
		if !shifted[id].Equal(want) {
			t.Errorf("member %d at %v, want %v", id, shifted[id], want)
		}
	}
}

func TestCompute_ZeroOptionsUseDefaults(t *testing.T) {
	ix := buildIndex([]family.ID{1, 2})
	pm := Compute(ix, Options{})
	if !approx(pm[2].X-pm[1].X, DefaultCardWidth) {
		t.Errorf("dx = %g, want card width %g with zero gap", pm[2].X-pm[1].X, DefaultCardWidth)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		snap := randomFamily(seed, 40)
		a := Compute(family.NewIndex(snap), DefaultOptions())

		// Shuffle input order: the result must not depend on it.
		r := rand.New(rand.NewPCG(seed, 99))
		r.Shuffle(len(snap.Members), func(i, j int) { snap.Members[i], snap.Members[j] = snap.Members[j], snap.Members[i] })
		r.Shuffle(len(snap.Relationships), func(i, j int) {
			snap.Relationships[i], snap.Relationships[j] = snap.Relationships[j], snap.Relationships[i]
		})
		b := Compute(family.NewIndex(snap), DefaultOptions())

		if !a.Equal(b) {
			t.Fatalf("seed %d: layouts differ", seed)
		}
	}
}

func TestCompute_RandomFamiliesNoOverlap(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		snap := randomFamily(seed, 60)
		pm := Compute(family.NewIndex(snap), DefaultOptions())
		if len(pm) != len(snap.Members) {
			t.Fatalf("seed %d: positioned %d of %d members", seed, len(pm), len(snap.Members))
		}
		assertNoOverlap(t, pm)
	}
}

// assertNoOverlap fails when two cards in the same band intersect.
func assertNoOverlap(t *testing.T, pm PositionMap) {
	t.Helper()
	ids := pm.IDs()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			pa, pb := pm[a], pm[b]
			if !approx(pa.Y, pb.Y) {
				continue
			}
			if math.Abs(pa.X-pb.X) < DefaultCardWidth-1e-9 {
				t.Errorf("members %d and %d overlap: %v %v", a, b, pa, pb)
			}
		}
	}
}

// randomFamily builds a family of n members where each member may have up
// to two parents among earlier members, some couples are married, and a
// few edges point backwards to create cycles.
func randomFamily(seed uint64, n int) family.Snapshot {
	r := rand.New(rand.NewPCG(seed, seed*31))
	var snap family.Snapshot
	for i := 1; i <= n; i++ {
		snap.Members = append(snap.Members, family.Member{ID: family.ID(i)})
	}
	type pair struct{ a, b family.ID }
	seen := map[pair]bool{}
	add := func(rel family.Relationship) {
		k := pair{rel.From, rel.To}
		if rel.Kind == family.KindSpouse {
			k = pair{rel.From + 1_000_000, rel.To}
		}
		if seen[k] {
			return
		}
		seen[k] = true
		snap.Relationships = append(snap.Relationships, rel)
	}

	for i := 2; i <= n; i++ {
		child := family.ID(i)
		if r.IntN(5) == 0 {
			continue
		}
		p1 := family.ID(r.IntN(i-1) + 1)
		add(family.ParentChild(p1, child, family.SubTypeNone))
		if r.IntN(2) == 0 {
			p2 := family.ID(r.IntN(i-1) + 1)
			if p2 != p1 {
				add(family.ParentChild(p2, child, family.SubTypeNone))
				add(family.Spouse(p1, p2, family.SubTypeNone, family.StatusActive))
			}
		}
	}
	for range n / 10 {
		a := family.ID(r.IntN(n) + 1)
		b := family.ID(r.IntN(n) + 1)
		add(family.ParentChild(max(a, b), min(a, b), family.SubTypeNone))
		add(family.Spouse(a, b, family.SubTypeNone, family.StatusActive))
	}
	return snap
}
