// Package tree implements CART decision trees for classification and
// regression with optional per-sample weights.
package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// featureThreshold is the minimum gap between two feature values for a
// threshold to be placed between them.
const featureThreshold = 1e-7

// impurityEpsilon marks a node as pure.
const impurityEpsilon = 1e-12

// Tree is the fitted structure shared by both estimators. Node 0 is the root.
type Tree struct {
	nodes    []node
	maxDepth int
}

type node struct {
	feature   int // -1 for leaves
	threshold float64
	left      int
	right     int
	impurity  float64
	nSamples  int
	weight    float64
	value     []float64
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// IsLeaf reports whether node i has no children.
func (t *Tree) IsLeaf(i int) bool { return t.nodes[i].feature < 0 }

// Split returns the feature and threshold of an internal node. Samples with
// x[feature] <= threshold go to the left child.
func (t *Tree) Split(i int) (feature int, threshold float64) {
	return t.nodes[i].feature, t.nodes[i].threshold
}

// Children returns the left and right child of node i, or -1, -1 for leaves.
func (t *Tree) Children(i int) (left, right int) {
	if t.IsLeaf(i) {
		return -1, -1
	}
	return t.nodes[i].left, t.nodes[i].right
}

// Value returns the weighted class totals (classifier) or the weighted mean
// (regressor) stored at node i.
func (t *Tree) Value(i int) []float64 {
	out := make([]float64, len(t.nodes[i].value))
	copy(out, t.nodes[i].value)
	return out
}

// Impurity returns the impurity of node i.
func (t *Tree) Impurity(i int) float64 { return t.nodes[i].impurity }

// NSamples returns the unweighted number of training rows reaching node i.
func (t *Tree) NSamples(i int) int { return t.nodes[i].nSamples }

// WeightedNSamples returns the total sample weight reaching node i.
func (t *Tree) WeightedNSamples(i int) float64 { return t.nodes[i].weight }

// MaxDepth returns the depth of the deepest leaf; a single leaf has depth 0.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// NLeaves returns the number of leaves.
func (t *Tree) NLeaves() int {
	n := 0
	for i := range t.nodes {
		if t.IsLeaf(i) {
			n++
		}
	}
	return n
}

// apply returns the leaf index reached by row.
func (t *Tree) apply(row []float64) int {
	i := 0
	for !t.IsLeaf(i) {
		n := &t.nodes[i]
		if row[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return i
}

// criterion accumulates weighted target statistics for a set of samples.
type criterion interface {
	statsLen() int
	// accumulate adds sign*w of sample i to stats.
	accumulate(stats []float64, i int, w, sign float64)
	weight(stats []float64) float64
	impurity(stats []float64) float64
	leafValue(stats []float64) []float64
}

type classificationCriterion struct {
	y        []int
	nClasses int
	entropy  bool
}

func (c *classificationCriterion) statsLen() int { return c.nClasses }

func (c *classificationCriterion) accumulate(stats []float64, i int, w, sign float64) {
	stats[c.y[i]] += sign * w
}

func (c *classificationCriterion) weight(stats []float64) float64 {
	var w float64
	for _, s := range stats {
		w += s
	}
	return w
}

func (c *classificationCriterion) impurity(stats []float64) float64 {
	w := c.weight(stats)
	if w <= 0 {
		return 0
	}
	var out float64
	if c.entropy {
		for _, s := range stats {
			if s > 0 {
				p := s / w
				out -= p * math.Log2(p)
			}
		}
		return out
	}
	out = 1
	for _, s := range stats {
		p := s / w
		out -= p * p
	}
	return out
}

func (c *classificationCriterion) leafValue(stats []float64) []float64 {
	out := make([]float64, len(stats))
	copy(out, stats)
	return out
}

// squaredErrorCriterion keeps [Σw, Σwy, Σwy²].
type squaredErrorCriterion struct {
	y []float64
}

func (c *squaredErrorCriterion) statsLen() int { return 3 }

func (c *squaredErrorCriterion) accumulate(stats []float64, i int, w, sign float64) {
	y := c.y[i]
	stats[0] += sign * w
	stats[1] += sign * w * y
	stats[2] += sign * w * y * y
}

func (c *squaredErrorCriterion) weight(stats []float64) float64 { return stats[0] }

func (c *squaredErrorCriterion) impurity(stats []float64) float64 {
	if stats[0] <= 0 {
		return 0
	}
	mean := stats[1] / stats[0]
	v := stats[2]/stats[0] - mean*mean
	if v < 0 {
		return 0
	}
	return v
}

func (c *squaredErrorCriterion) leafValue(stats []float64) []float64 {
	if stats[0] <= 0 {
		return []float64{0}
	}
	return []float64{stats[1] / stats[0]}
}

// builder grows a tree depth first.
type builder struct {
	X       *mat.Dense
	weights []float64
	crit    criterion
	params  params
	rng     *rand.Rand

	tree        *Tree
	importances []float64
}

type split struct {
	feature     int
	threshold   float64
	improvement float64
	pos         int // rows [0,pos) of the sorted order go left
}

func newBuilder(X *mat.Dense, weights []float64, crit criterion, p params) *builder {
	_, cols := X.Dims()
	return &builder{
		X:           X,
		weights:     weights,
		crit:        crit,
		params:      p,
		rng:         rand.New(rand.NewPCG(uint64(p.randomState), 0x5eed)),
		tree:        &Tree{},
		importances: make([]float64, cols),
	}
}

func (b *builder) build() (*Tree, []float64) {
	rows, _ := b.X.Dims()
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	b.grow(idx, 0)
	return b.tree, b.importances
}

func (b *builder) stats(idx []int) []float64 {
	s := make([]float64, b.crit.statsLen())
	for _, i := range idx {
		b.crit.accumulate(s, i, b.weights[i], 1)
	}
	return s
}

func (b *builder) grow(idx []int, depth int) int {
	stats := b.stats(idx)
	w := b.crit.weight(stats)
	imp := b.crit.impurity(stats)

	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{
		feature:  -1,
		impurity: imp,
		nSamples: len(idx),
		weight:   w,
		value:    b.crit.leafValue(stats),
	})
	if depth > b.tree.maxDepth {
		b.tree.maxDepth = depth
	}

	n := len(idx)
	isLeaf := (b.params.maxDepth > 0 && depth >= b.params.maxDepth) ||
		n < b.params.minSamplesSplit ||
		n < 2*b.params.minSamplesLeaf ||
		w <= 0 ||
		imp <= impurityEpsilon
	if isLeaf {
		return id
	}

	best, sorted, ok := b.findSplit(idx, stats, w, imp)
	if !ok {
		return id
	}

	left := make([]int, best.pos)
	copy(left, sorted[:best.pos])
	right := make([]int, n-best.pos)
	copy(right, sorted[best.pos:])

	b.importances[best.feature] += best.improvement

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	nd := &b.tree.nodes[id]
	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = l
	nd.right = r
	return id
}

// findSplit scans every feature, in a seeded random order, for the threshold
// maximising the weighted impurity decrease. It returns the rows sorted by the
// winning feature.
func (b *builder) findSplit(idx []int, total []float64, w, imp float64) (split, []int, bool) {
	_, cols := b.X.Dims()
	n := len(idx)
	best := split{improvement: math.Inf(-1)}
	var bestSorted []int
	found := false

	sorted := make([]int, n)
	left := make([]float64, len(total))
	right := make([]float64, len(total))

	for _, f := range b.rng.Perm(cols) {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool {
			return b.X.At(sorted[a], f) < b.X.At(sorted[c], f)
		})
		if b.X.At(sorted[n-1], f) <= b.X.At(sorted[0], f)+featureThreshold {
			continue // constant feature
		}

		for k := range left {
			left[k] = 0
		}
		copy(right, total)

		for p := 0; p < n-1; p++ {
			i := sorted[p]
			b.crit.accumulate(left, i, b.weights[i], 1)
			b.crit.accumulate(right, i, b.weights[i], -1)

			xa := b.X.At(i, f)
			xb := b.X.At(sorted[p+1], f)
			if xb <= xa+featureThreshold {
				continue
			}
			nLeft, nRight := p+1, n-p-1
			if nLeft < b.params.minSamplesLeaf || nRight < b.params.minSamplesLeaf {
				continue
			}
			wl, wr := b.crit.weight(left), b.crit.weight(right)
			if wl <= 0 || wr <= 0 {
				continue
			}

			improvement := w*imp - wl*b.crit.impurity(left) - wr*b.crit.impurity(right)
			if improvement > best.improvement {
				threshold := xa/2 + xb/2
				if threshold == xb || math.IsInf(threshold, 0) || math.IsNaN(threshold) {
					threshold = xa
				}
				best = split{feature: f, threshold: threshold, improvement: improvement, pos: nLeft}
				bestSorted = append(bestSorted[:0], sorted...)
				found = true
			}
		}
	}
	return best, bestSorted, found
}

// normalizeImportances scales importances to sum to one; all-zero stays zero.
func normalizeImportances(imp []float64) []float64 {
	out := make([]float64, len(imp))
	var sum float64
	for _, v := range imp {
		sum += v
	}
	if sum <= 0 {
		return out
	}
	for i, v := range imp {
		out[i] = v / sum
	}
	return out
}
