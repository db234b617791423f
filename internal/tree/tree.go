// Package tree implements the classifiers behind the hiring predictor: a
// gradient-boosted ensemble of CART regression trees and a bagged
// decision-forest fallback. Training is fully deterministic for a fixed
// seed, and serialized models round-trip through gob.
package tree

import "sort"

// Node is one node of a binary regression tree, stored flat. Feature < 0
// marks a leaf. Value holds the node's training mean target; for leaves it
// is the prediction, for internal nodes it anchors path attribution.
type Node struct {
	Feature   int
	Threshold float64 // go left when x[Feature] <= Threshold
	Left      int
	Right     int
	Value     float64
}

// Tree is a fitted regression tree.
type Tree struct {
	Nodes []Node
}

// Predict walks the tree for one sample.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for t.Nodes[i].Feature >= 0 {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// AddContributions walks the split path, attributing each change in node
// mean to the feature that was split on, and returns the root mean. This is
// the classic tree-path attribution: the leaf value decomposes exactly into
// root mean plus the per-feature deltas accumulated into out.
func (t *Tree) AddContributions(x []float64, out []float64) float64 {
	i := 0
	for t.Nodes[i].Feature >= 0 {
		n := t.Nodes[i]
		next := n.Left
		if x[n.Feature] > n.Threshold {
			next = n.Right
		}
		out[n.Feature] += t.Nodes[next].Value - n.Value
		i = next
	}
	return t.Nodes[0].Value
}

// fitParams bounds a single tree fit.
type fitParams struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int   // 0 means consider every feature
	featurePool []int // candidate features, shuffled by the caller per split
}

// fitRegression grows a tree on target values for the given sample indices.
func fitRegression(X [][]float64, target []float64, idx []int, p fitParams) *Tree {
	t := &Tree{}
	t.grow(X, target, idx, 0, p)
	return t
}

// grow appends the subtree for idx and returns its node index.
func (t *Tree) grow(X [][]float64, target []float64, idx []int, depth int, p fitParams) int {
	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: -1, Value: mean(target, idx)})

	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf || pure(target, idx) {
		return self
	}

	feat, thr, ok := bestSplit(X, target, idx, p)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < p.minLeaf || len(right) < p.minLeaf {
		return self
	}

	t.Nodes[self].Feature = feat
	t.Nodes[self].Threshold = thr
	l := t.grow(X, target, left, depth+1, p)
	t.Nodes[self].Left = l
	r := t.grow(X, target, right, depth+1, p)
	t.Nodes[self].Right = r
	return self
}

// bestSplit scans candidate features with a sort + prefix-sum sweep and
// returns the split minimizing the total squared error.
func bestSplit(X [][]float64, target []float64, idx []int, p fitParams) (feat int, thr float64, ok bool) {
	pool := p.featurePool
	if len(pool) == 0 {
		pool = make([]int, len(X[0]))
		for i := range pool {
			pool[i] = i
		}
	}
	limit := len(pool)
	if p.maxFeatures > 0 && p.maxFeatures < limit {
		limit = p.maxFeatures
	}

	bestGain := 1e-12
	order := make([]int, len(idx))

	var total, totalSq float64
	for _, i := range idx {
		total += target[i]
		totalSq += target[i] * target[i]
	}
	n := float64(len(idx))
	baseSSE := totalSq - total*total/n

	for _, f := range pool[:limit] {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var leftSum, leftSq float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += target[i]
			leftSq += target[i] * target[i]

			// No valid threshold between equal values.
			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}
			nl := float64(pos + 1)
			nr := n - nl
			if int(nl) < p.minLeaf || int(nr) < p.minLeaf {
				continue
			}
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if gain := baseSSE - sse; gain > bestGain {
				bestGain = gain
				feat = f
				thr = (X[order[pos]][f] + X[order[pos+1]][f]) / 2
				ok = true
			}
		}
	}
	return feat, thr, ok
}

func mean(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var s float64
	for _, i := range idx {
		s += target[i]
	}
	return s / float64(len(idx))
}

func pure(target []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if target[i] != target[idx[0]] {
			return false
		}
	}
	return true
}
