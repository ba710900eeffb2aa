package errors

import "strings"

func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// FindClosestMatch returns the candidate nearest to input, or "" when nothing
// is close enough to suggest. Short names tolerate one edit, medium names two
// and long names three.
func FindClosestMatch(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}
	needle := []rune(strings.ToLower(input))
	best := ""
	bestDistance := -1
	for _, candidate := range candidates {
		dist := editDistance(needle, []rune(strings.ToLower(candidate)))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			best = candidate
		}
	}
	threshold := 1
	switch {
	case len(needle) >= 7:
		threshold = 3
	case len(needle) >= 4:
		threshold = 2
	}
	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}
	return best
}
