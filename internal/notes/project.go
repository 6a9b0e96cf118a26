package notes

import "strings"

// Filter selects which notes a view shows: everything, archived notes only,
// or one category.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterArchived Filter = "archived"
)

// ParseFilter normalizes s. Unrecognized values select everything.
func ParseFilter(s string) Filter {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == FilterArchived {
		return f
	}
	if c, ok := ParseCategory(string(f)); ok {
		return Filter(c)
	}
	return FilterAll
}

// Filters lists the selectable filters in display order.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, c := range Categories {
		out = append(out, Filter(c))
	}
	return append(out, FilterArchived)
}

// Project returns the notes selected by filter, preserving order. The input
// slice is never modified.
func Project(notes []Note, filter Filter) []Note {
	f := ParseFilter(string(filter))

	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		switch {
		case f == FilterAll:
		case f == FilterArchived:
			if !n.Archived {
				continue
			}
		default:
			if Filter(n.Category) != f {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// CountByCategory tallies notes per category, in category order.
func CountByCategory(notes []Note) []CategoryCount {
	counts := make([]CategoryCount, len(Categories))
	for i, c := range Categories {
		counts[i].Name = c
	}
	for _, n := range notes {
		for i := range counts {
			if counts[i].Name != n.Category {
				continue
			}
			counts[i].Count++
			if n.Archived {
				counts[i].Archived++
			}
		}
	}
	return counts
}
