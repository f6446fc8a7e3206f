package family

import (
	"slices"
	"testing"
)

func TestAssignGenerations_Tree(t *testing.T) {
	//   1 = 2
	//     |
	//     3 = 4
	//       |
	//       5
	ix := NewIndex(Snapshot{
		Members: members(1, 2, 3, 4, 5),
		Relationships: []Relationship{
			Spouse(1, 2, SubTypeNone, StatusActive),
			ParentChild(1, 3, SubTypeNone),
			ParentChild(2, 3, SubTypeNone),
			Spouse(3, 4, SubTypeNone, StatusActive),
			ParentChild(3, 5, SubTypeNone),
			ParentChild(4, 5, SubTypeNone),
		},
	})

	gens := AssignGenerations(ix)
	want := Generations{1: 0, 2: 0, 3: 1, 4: 0, 5: 2}
	for id, g := range want {
		if gens[id] != g {
			t.Errorf("generation(%d) = %d, want %d", id, gens[id], g)
		}
	}
	if gens.Max() != 2 {
		t.Errorf("Max() = %d, want 2", gens.Max())
	}
	if got := gens.Members(0); !slices.Equal(got, []ID{1, 2, 4}) {
		t.Errorf("Members(0) = %v, want [1 2 4]", got)
	}
}

func TestAssignGenerations_DeepestPathWins(t *testing.T) {
	// 1 -> 2 -> 3 and 1 -> 3: member 3 sits below both parents.
	ix := NewIndex(Snapshot{
		Members: members(1, 2, 3),
		Relationships: []Relationship{
			ParentChild(1, 3, SubTypeNone),
			ParentChild(1, 2, SubTypeNone),
			ParentChild(2, 3, SubTypeNone),
		},
	})
	gens := AssignGenerations(ix)
	if gens[3] != 2 {
		t.Errorf("generation(3) = %d, want 2", gens[3])
	}
}

func TestAssignGenerations_Cycle(t *testing.T) {
	// A -> B -> A: no roots at all.
	ix := NewIndex(Snapshot{
		Members: members(1, 2),
		Relationships: []Relationship{
			ParentChild(1, 2, SubTypeNone),
			ParentChild(2, 1, SubTypeNone),
		},
	})

	gens := AssignGenerations(ix)
	if len(gens) != 2 {
		t.Fatalf("assigned %d members, want 2", len(gens))
	}
	if gens[1] != 0 || gens[2] != 1 {
		t.Errorf("generations = %v, want map[1:0 2:1]", gens)
	}
}

func TestAssignGenerations_OrphanIslandAfterRoots(t *testing.T) {
	// Rooted part: 1 -> 2. Island: 3 <-> 4.
	ix := NewIndex(Snapshot{
		Members: members(1, 2, 3, 4),
		Relationships: []Relationship{
			ParentChild(1, 2, SubTypeNone),
			ParentChild(3, 4, SubTypeNone),
			ParentChild(4, 3, SubTypeNone),
		},
	})

	gens := AssignGenerations(ix)
	if gens[3] != 2 || gens[4] != 3 {
		t.Errorf("island generations = (%d, %d), want (2, 3)", gens[3], gens[4])
	}
}

func TestAssignGenerations_SelfParent(t *testing.T) {
	ix := NewIndex(Snapshot{
		Members:       members(1),
		Relationships: []Relationship{ParentChild(1, 1, SubTypeNone)},
	})
	gens := AssignGenerations(ix)
	if g, ok := gens[1]; !ok || g != 0 {
		t.Errorf("generation(1) = %d, %v; want 0, true", g, ok)
	}
}

func TestComputeStats(t *testing.T) {
	ix := NewIndex(Snapshot{
		Members: members(1, 2, 3, 4, 5),
		Relationships: []Relationship{
			Spouse(1, 2, SubTypeNone, StatusActive),
			ParentChild(1, 3, SubTypeNone),
			ParentChild(2, 3, SubTypeNone),
			ParentChild(4, 5, SubTypeNone),
			ParentChild(5, 4, SubTypeNone),
			ParentChild(1, 77, SubTypeNone),
		},
	})

	st := ComputeStats(ix)
	if st.Members != 5 {
		t.Errorf("Members = %d, want 5", st.Members)
	}
	if st.Relationships != 5 || st.Dropped != 1 {
		t.Errorf("Relationships/Dropped = %d/%d, want 5/1", st.Relationships, st.Dropped)
	}
	if st.Roots != 2 || st.Orphans != 2 {
		t.Errorf("Roots/Orphans = %d/%d, want 2/2", st.Roots, st.Orphans)
	}
	if st.Generations != 4 {
		t.Errorf("Generations = %d, want 4", st.Generations)
	}
	if !slices.Equal(st.PerGeneration, []int{2, 1, 1, 1}) {
		t.Errorf("PerGeneration = %v, want [2 1 1 1]", st.PerGeneration)
	}
	if st.Clusters != 4 || st.LargestCluster != 2 {
		t.Errorf("Clusters/Largest = %d/%d, want 4/2", st.Clusters, st.LargestCluster)
	}
}
