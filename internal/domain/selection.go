package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Includes reports whether ch is part of the selection: its number was picked
// and, when categories are given, it carries at least one of them.
func (s Selection) Includes(ch Chapter) bool {
	picked := false
	for _, n := range s.ChapterNumbers {
		if n == ch.Number {
			picked = true
			break
		}
	}
	if !picked {
		return false
	}
	if len(s.CategoryIDs) == 0 {
		return true
	}
	for _, want := range s.CategoryIDs {
		for _, have := range ch.CategoryIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Key is a stable cache key for the selection, independent of pick order.
func (s Selection) Key() string {
	numbers := append([]int(nil), s.ChapterNumbers...)
	sort.Ints(numbers)
	categories := append([]string(nil), s.CategoryIDs...)
	sort.Strings(categories)

	parts := make([]string, 0, len(numbers))
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",") + "|" + strings.Join(categories, ",")
}
