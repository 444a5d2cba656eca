package strategy

import "sort"

// last returns the trailing n values, or all of them when fewer exist.
func last(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// modal returns the most frequent value and its count. Ties go to the
// value seen first.
func modal(values []int) (int, int) {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := 0, 0
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}
