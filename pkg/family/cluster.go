package family

import "slices"

// SpouseCluster returns seed together with every member reachable from it
// over spouse edges, sorted by ID. A member without spouses is a cluster
// of one. Unknown seeds return nil.
//
// The result only depends on the snapshot, never on traversal order, so
// repeated layouts place clusters identically.
func (ix *Index) SpouseCluster(seed ID) []ID {
	if !ix.Has(seed) {
		return nil
	}
	visited := map[ID]bool{seed: true}
	cluster := []ID{seed}
	queue := []ID{seed}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, s := range ix.spouses[curr] {
			if visited[s] {
				continue
			}
			visited[s] = true
			cluster = append(cluster, s)
			queue = append(queue, s)
		}
	}
	slices.Sort(cluster)
	return cluster
}

// Clusters partitions all members into spouse clusters. Clusters are
// ordered by their smallest member ID.
func (ix *Index) Clusters() [][]ID {
	seen := make(map[ID]bool, len(ix.ids))
	var out [][]ID
	for _, id := range ix.ids {
		if seen[id] {
			continue
		}
		c := ix.SpouseCluster(id)
		for _, m := range c {
			seen[m] = true
		}
		out = append(out, c)
	}
	return out
}

// SharedChildren returns the children common to every member of cluster:
// a child qualifies only when each cluster member is recorded as one of
// its parents. For a single-member cluster this is simply its children.
func (ix *Index) SharedChildren(cluster []ID) []ID {
	switch len(cluster) {
	case 0:
		return nil
	case 1:
		return ix.children[cluster[0]]
	}
	var shared []ID
	for _, child := range ix.children[cluster[0]] {
		qualifies := true
		for _, p := range cluster[1:] {
			if !ix.IsParent(p, child) {
				qualifies = false
				break
			}
		}
		if qualifies {
			shared = append(shared, child)
		}
	}
	return shared
}
