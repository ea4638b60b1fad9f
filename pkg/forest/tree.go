package forest

import "sort"

// node is one regression-tree node. Leaves predict the mean of their
// training targets.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	leaf      bool
	value     float64
}

// buildTree grows a CART regression tree to purity over the given sample
// indices, splitting on the variance (SSE) reduction of the best threshold
// across all features. Impurity decreases are accumulated into importance,
// one slot per feature.
func buildTree(x [][]float64, y []float64, idx []int, importance []float64) *node {
	sum, sse := sumSSE(y, idx)
	n := float64(len(idx))
	mean := sum / n

	if len(idx) < 2 || sse <= 0 {
		return &node{leaf: true, value: mean}
	}

	feature, threshold, gain := bestSplit(x, y, idx, sse)
	if feature < 0 {
		return &node{leaf: true, value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &node{leaf: true, value: mean}
	}

	importance[feature] += gain

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(x, y, left, importance),
		right:     buildTree(x, y, right, importance),
	}
}

// bestSplit scans every feature for the threshold with the largest SSE
// reduction. Returns feature -1 when no split improves on the parent.
func bestSplit(x [][]float64, y []float64, idx []int, parentSSE float64) (int, float64, float64) {
	bestFeature := -1
	var bestThreshold, bestGain float64

	order := make([]int, len(idx))
	for f := 0; f < len(x[idx[0]]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		// Prefix sums let each candidate threshold be scored in O(1):
		// SSE = Σy² - (Σy)²/n on each side.
		var lSum, lSq float64
		tSum, tSq := 0.0, 0.0
		for _, i := range order {
			tSum += y[i]
			tSq += y[i] * y[i]
		}

		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			lSum += y[i]
			lSq += y[i] * y[i]

			cur, next := x[i][f], x[order[k+1]][f]
			if cur == next {
				continue // no threshold separates equal values
			}

			nl := float64(k + 1)
			nr := float64(len(order) - k - 1)
			lSSE := lSq - lSum*lSum/nl
			rSSE := (tSq - lSq) - (tSum-lSum)*(tSum-lSum)/nr
			gain := parentSSE - lSSE - rSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func sumSSE(y []float64, idx []int) (sum, sse float64) {
	var sq float64
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(idx))
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // numeric noise on constant targets
	}
	return sum, sse
}

// predict walks the tree for one feature row.
func (nd *node) predict(row []float64) float64 {
	for !nd.leaf {
		if row[nd.feature] <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.value
}
