package meal

import "strings"

// DedupeByTitle merges the results of multiple extraction passes into one
// list, keeping the first occurrence of each title under case-insensitive
// comparison. Passes are iterated in the order given, so callers must query
// the preferred source first: the earliest-discovered variant always wins.
func DedupeByTitle(passes ...[]Meal) []Meal {
	seen := make(map[string]struct{})
	var unique []Meal

	for _, pass := range passes {
		for _, m := range pass {
			key := strings.ToLower(m.Title)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, m)
		}
	}

	return unique
}
