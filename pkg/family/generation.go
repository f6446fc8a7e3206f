package family

import (
	"maps"
	"slices"
)

// Generations maps each member to its depth below the nearest root.
type Generations map[ID]int

// AssignGenerations gives every member of ix a generation.
//
// Roots (members without parents) are generation 0 and each child is one
// generation below its parent. A member reachable along several paths
// keeps the deepest generation, so it always sits below all of its
// parents. Each walk carries its own path set, so parent-child cycles end
// the branch instead of recursing forever.
//
// Members not reachable from any root (cyclic islands) are walked from
// their lowest ID starting at the first generation number not used by the
// rooted part of the tree.
func AssignGenerations(ix *Index) Generations {
	gens, _ := assignGenerations(ix)
	return gens
}

func assignGenerations(ix *Index) (Generations, int) {
	gens := make(Generations, ix.Len())

	var walk func(id ID, gen int, path map[ID]bool)
	walk = func(id ID, gen int, path map[ID]bool) {
		if path[id] {
			return
		}
		if cur, ok := gens[id]; ok && cur >= gen {
			return
		}
		gens[id] = gen
		path[id] = true
		for _, child := range ix.Children(id) {
			walk(child, gen+1, path)
		}
		delete(path, id)
	}

	for _, root := range ix.Roots() {
		walk(root, 0, make(map[ID]bool))
	}

	orphans := 0
	next := gens.Max() + 1
	for _, id := range ix.ids {
		if _, ok := gens[id]; ok {
			continue
		}
		before := len(gens)
		walk(id, next, make(map[ID]bool))
		orphans += len(gens) - before
	}
	return gens, orphans
}

// Max returns the deepest generation, or -1 when empty.
func (g Generations) Max() int {
	maxGen := -1
	for _, gen := range g {
		maxGen = max(maxGen, gen)
	}
	return maxGen
}

// Members returns the IDs in generation gen, sorted.
func (g Generations) Members(gen int) []ID {
	var ids []ID
	for _, id := range slices.Sorted(maps.Keys(g)) {
		if g[id] == gen {
			ids = append(ids, id)
		}
	}
	return ids
}

// Stats summarizes the shape of a family graph.
type Stats struct {
	Members        int   `json:"members"`
	Relationships  int   `json:"relationships"`
	Dropped        int   `json:"dropped"`
	Roots          int   `json:"roots"`
	Orphans        int   `json:"orphans"`
	Generations    int   `json:"generations"`
	PerGeneration  []int `json:"per_generation"`
	Clusters       int   `json:"clusters"`
	LargestCluster int   `json:"largest_cluster"`
}

// ComputeStats gathers display statistics for ix.
func ComputeStats(ix *Index) Stats {
	gens, orphans := assignGenerations(ix)
	st := Stats{
		Members:       ix.Len(),
		Relationships: len(ix.Relationships()),
		Dropped:       ix.Dropped(),
		Roots:         len(ix.Roots()),
		Orphans:       orphans,
		Generations:   gens.Max() + 1,
	}
	st.PerGeneration = make([]int, st.Generations)
	for _, gen := range gens {
		st.PerGeneration[gen]++
	}
	clusters := ix.Clusters()
	st.Clusters = len(clusters)
	for _, c := range clusters {
		st.LargestCluster = max(st.LargestCluster, len(c))
	}
	return st
}
