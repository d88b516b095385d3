package cluster

import (
	"fmt"
	"math"
)

// cosineDistance returns 1 minus the cosine similarity of two vectors.
// Zero vectors are treated as maximally distant.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// agglomerate groups the vectors into k clusters using average-linkage
// agglomerative clustering over cosine distance. The returned labels
// are cluster indices renumbered by order of first appearance, so the
// first vector always belongs to cluster 0.
func agglomerate(vectors [][]float64, k int) ([]int, error) {
	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("no vectors to cluster")
	}
	if k < 1 {
		return nil, fmt.Errorf("invalid cluster count %d", k)
	}
	if k > n {
		k = n
	}

	// Pairwise distance matrix.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := cosineDistance(vectors[i], vectors[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	// Each cluster starts as a single vector. Merging updates the
	// distance matrix with size-weighted averages (average linkage).
	members := make([]int, n)
	active := make([]bool, n)
	assignment := make([]int, n)
	for i := 0; i < n; i++ {
		members[i] = 1
		active[i] = true
		assignment[i] = i
	}

	remaining := n
	for remaining > k {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}
		if bi < 0 {
			break
		}

		// Merge bj into bi.
		wi := float64(members[bi])
		wj := float64(members[bj])
		for m := 0; m < n; m++ {
			if !active[m] || m == bi || m == bj {
				continue
			}
			d := (dist[bi][m]*wi + dist[bj][m]*wj) / (wi + wj)
			dist[bi][m] = d
			dist[m][bi] = d
		}
		members[bi] += members[bj]
		active[bj] = false
		for i := range assignment {
			if assignment[i] == bj {
				assignment[i] = bi
			}
		}
		remaining--
	}

	return renumber(assignment), nil
}

// renumber maps arbitrary cluster ids to dense indices assigned in
// order of first appearance.
func renumber(assignment []int) []int {
	next := 0
	seen := make(map[int]int)
	labels := make([]int, len(assignment))
	for i, a := range assignment {
		id, ok := seen[a]
		if !ok {
			id = next
			seen[a] = id
			next++
		}
		labels[i] = id
	}
	return labels
}
