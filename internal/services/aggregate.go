package services

import (
	"slices"
	"time"

	"pizza-dashboard/internal/models"
	"pizza-dashboard/internal/selection"
)

// KeyFunc extracts a grouping key from a record. Returning false leaves the
// record out of the grouping.
type KeyFunc[K comparable] func(models.SalesRecord) (K, bool)

// Total is the summed quantity for one key.
type Total[K comparable] struct {
	Key K
	Sum int
}

// Group is an outer key with its own sum and the inner totals that make it up.
type Group[K1, K2 comparable] struct {
	Key   K1
	Sum   int
	Items []Total[K2]
}

func ByPizza(r models.SalesRecord) (string, bool) {
	return r.PizzaName, true
}

func ByCategory(r models.SalesRecord) (string, bool) {
	return r.Category, true
}

// ByName keys records by the name a selection in mode refers to: the
// category in category mode, the pizza otherwise.
func ByName(mode selection.Mode) KeyFunc[string] {
	if mode == selection.ModeCategory {
		return ByCategory
	}
	return ByPizza
}

// ByMonth buckets a record to the first day of its month. Undated records
// are excluded.
func ByMonth(r models.SalesRecord) (time.Time, bool) {
	if !r.HasDate() {
		return time.Time{}, false
	}
	return MonthStart(r.Date), true
}

// ByMonthOfYear buckets a record to its calendar month regardless of year.
func ByMonthOfYear(r models.SalesRecord) (time.Month, bool) {
	if !r.HasDate() {
		return 0, false
	}
	return r.Date.Month(), true
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Aggregate sums quantity per key. Groups come back in the order their key
// was first seen.
func Aggregate[K comparable](records []models.SalesRecord, key KeyFunc[K]) []Total[K] {
	index := make(map[K]int)
	totals := make([]Total[K], 0)

	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(totals)
			index[k] = i
			totals = append(totals, Total[K]{Key: k})
		}
		totals[i].Sum += r.Quantity
	}

	return totals
}

// AggregateNested groups by outer, then by inner within each outer group. A
// record is counted only when both keys accept it.
func AggregateNested[K1, K2 comparable](records []models.SalesRecord, outer KeyFunc[K1], inner KeyFunc[K2]) []Group[K1, K2] {
	index := make(map[K1]int)
	groups := make([]Group[K1, K2], 0)
	members := make([][]models.SalesRecord, 0)

	for _, r := range records {
		k, ok := outer(r)
		if !ok {
			continue
		}
		if _, ok := inner(r); !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K1, K2]{Key: k})
			members = append(members, nil)
		}
		members[i] = append(members[i], r)
	}

	for i := range groups {
		groups[i].Items = Aggregate(members[i], inner)
		groups[i].Sum = Sum(groups[i].Items)
	}

	return groups
}

// SortByTotal orders totals by sum, largest first. The sort is stable so
// ties keep first-seen order.
func SortByTotal[K comparable](totals []Total[K]) {
	slices.SortStableFunc(totals, func(a, b Total[K]) int {
		return b.Sum - a.Sum
	})
}

func Sum[K comparable](totals []Total[K]) int {
	sum := 0
	for _, t := range totals {
		sum += t.Sum
	}
	return sum
}

// Filter returns the records accepted by keep. The input is not modified.
func Filter(records []models.SalesRecord, keep func(models.SalesRecord) bool) []models.SalesRecord {
	out := make([]models.SalesRecord, 0)
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
