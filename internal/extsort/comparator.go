// Package extsort implements an external sort for whitespace-delimited token
// streams too large to fit in memory. The input is split into sorted runs on
// disk sized to an estimated memory budget, then the runs are merged lazily
// into a single globally sorted output stream.
package extsort

import "strings"

// OrderAsc and OrderDesc are the accepted values for the sort order setting.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Comparator is a stateless total order over tokens. It returns a negative
// value when a sorts before b, zero when they are equal, and a positive value
// when a sorts after b. The merge direction follows from the comparator
// alone, there is no separate ascending/descending flag.
type Comparator func(a, b string) int

// Ascending orders tokens case-insensitively, lowest first.
func Ascending(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Descending orders tokens case-insensitively, highest first.
func Descending(a, b string) int {
	return Ascending(b, a)
}

// ForOrder selects the comparator for an order setting. Anything other than
// "desc" sorts ascending.
func ForOrder(order string) Comparator {
	if order == OrderDesc {
		return Descending
	}
	return Ascending
}
