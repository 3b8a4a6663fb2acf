package core

import "sort"

// Cluster is a 4-connected group of same-colored tiles, origin included.
type Cluster []Coord

// Len returns the number of tiles in the cluster.
func (c Cluster) Len() int {
	return len(c)
}

// Removable returns true if the cluster is large enough to remove.
func (c Cluster) Removable() bool {
	return len(c) >= MinCluster
}

// Contains returns true if the cluster includes the coordinate.
func (c Cluster) Contains(p Coord) bool {
	for _, q := range c {
		if q == p {
			return true
		}
	}
	return false
}

// Sorted returns a row-major ordered copy of the cluster.
func (c Cluster) Sorted() Cluster {
	out := make(Cluster, len(c))
	copy(out, c)
	sort.Slice(out, func(i, j int) bool {
		return out[i].before(out[j])
	})
	return out
}

// removalOrder returns a copy sorted by row descending, then column
// descending. Deleting in this order never invalidates a coordinate that
// is still to be processed.
func (c Cluster) removalOrder() Cluster {
	out := make(Cluster, len(c))
	copy(out, c)
	sort.Slice(out, func(i, j int) bool {
		return out[j].before(out[i])
	})
	return out
}

// Score returns the points for removing n tiles: n*(n-1).
func Score(n int) int {
	if n < 1 {
		return 0
	}
	return n * (n - 1)
}

// PreviewScore returns the points the cluster would earn if removed.
func PreviewScore(c Cluster) int {
	return Score(len(c))
}
