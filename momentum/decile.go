// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package momentum

import (
	"math"
	"sort"
)

// QuantileCut assigns each value the index of the quantile bin it falls in,
// using q equal-probability bins. Bin edges are the sample quantiles at
// 0, 1/q, ..., 1 (linear interpolation between order statistics); repeated
// edges are dropped, so ties at a boundary merge adjacent bins and fewer than
// q bins may be produced. Bins are closed on the right and the lowest edge is
// included in the first bin.
//
// When the edges collapse to a single value (one row, or every value equal)
// no bin exists and nil is returned: those values have no label.
//
// Labels are returned in the order of vals; the result only depends on the
// multiset of values, never on their order.
func QuantileCut(vals []float64, q int) []int {
	if len(vals) == 0 || q < 1 {
		return nil
	}

	edges := QuantileEdges(vals, q)
	if len(edges) < 2 {
		return nil
	}

	labels := make([]int, len(vals))

	lastBin := len(edges) - 2
	for idx, val := range vals {
		// first edge >= val; val lies in (edges[bin-1], edges[bin]]
		bin := sort.SearchFloat64s(edges, val) - 1
		if bin < 0 {
			bin = 0
		}
		if bin > lastBin {
			bin = lastBin
		}
		labels[idx] = bin
	}

	return labels
}

// QuantileEdges returns the distinct quantile edges used by QuantileCut
func QuantileEdges(vals []float64, q int) []float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	edges := make([]float64, 0, q+1)
	for ii := 0; ii <= q; ii++ {
		edge := quantile(sorted, float64(ii)/float64(q))
		if len(edges) == 0 || edge != edges[len(edges)-1] {
			edges = append(edges, edge)
		}
	}

	return edges
}

// quantile of an ascending slice with linear interpolation at position
// p*(n-1). The interpolation is computed from the nearer end point so that
// quantiles landing exactly on an order statistic reproduce it exactly.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	pos := p * float64(n-1)
	lo := math.Floor(pos)
	lower := int(lo)
	if lower >= n-1 {
		return sorted[n-1]
	}

	a := sorted[lower]
	b := sorted[lower+1]
	t := pos - lo
	if t >= 0.5 {
		return b - (b-a)*(1-t)
	}
	return a + (b-a)*t
}
