package catalog

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// suggest returns up to three candidates close to name by edit distance
func suggest(name string, candidates []string) []string {
	type scored struct {
		val  string
		dist int
	}
	key := normalizeName(name)
	if key == "" {
		return nil
	}
	limit := distanceLimit(len([]rune(key)))

	var results []scored
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(key, normalizeName(cand))
		if dist > limit {
			continue
		}
		results = append(results, scored{val: cand, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})

	out := make([]string, 0, maxSuggestions)
	for _, r := range results {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.val)
	}
	return out
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 10:
		return 3
	default:
		return n / 3
	}
}

// Suggest returns up to three of candidates that are close to name
func Suggest(name string, candidates []string) []string {
	return suggest(name, candidates)
}
