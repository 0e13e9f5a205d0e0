// Package fuzzy implements the Levenshtein edit distance used for
// vocabulary name matching
package fuzzy

// Distance returns the minimum number of single-rune inserts, deletes, and
// substitutions needed to transform a into b
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// two-row DP; prev[j] is the distance between ra[:i] and rb[:j]
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Within returns the distance between a and b and whether it is <= max.
// The length delta is a cheap lower bound, so wildly different strings
// short-circuit without running the DP
func Within(a, b string, max int) (int, bool) {
	la, lb := len([]rune(a)), len([]rune(b))
	delta := la - lb
	if delta < 0 {
		delta = -delta
	}
	if delta > max {
		return delta, false
	}
	d := Distance(a, b)
	return d, d <= max
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
