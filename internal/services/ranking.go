package services

import (
	"fmt"
	"slices"
	"time"

	"pizza-dashboard/internal/models"
)

const (
	topBandLimit         = 10
	respectableBandLimit = 20
	topTodayLimit        = 3
)

type RankBand string

const (
	BandTopTen      RankBand = "top10"
	BandRespectable RankBand = "respectable"
	BandRareGem     RankBand = "rare_gem"
)

// PickSummary describes where a picked pizza sits in the sales ranking.
type PickSummary struct {
	Name       string   `json:"pizza_name"`
	Rank       int      `json:"rank"`
	OutOf      int      `json:"out_of"`
	Total      int      `json:"total"`
	Percentage float64  `json:"percentage"`
	Band       RankBand `json:"band"`
	Message    string   `json:"message"`
}

// RankPizzas returns every pizza ordered by units sold, largest first, with
// its share of all units sold.
func RankPizzas(records []models.SalesRecord) []models.PizzaRank {
	totals := Aggregate(records, ByPizza)
	SortByTotal(totals)
	grand := Sum(totals)
	categories := PizzaCategories(records)

	ranking := make([]models.PizzaRank, len(totals))
	for i, t := range totals {
		ranking[i] = models.PizzaRank{
			Rank:       i + 1,
			Name:       t.Key,
			Category:   categories[t.Key],
			Total:      t.Sum,
			Percentage: percentage(t.Sum, grand),
		}
	}
	return ranking
}

// Summarize ranks each pick against the full ranking. Picks missing from the
// ranking are skipped.
func Summarize(ranking []models.PizzaRank, picks []string) []PickSummary {
	byName := make(map[string]models.PizzaRank, len(ranking))
	for _, r := range ranking {
		byName[r.Name] = r
	}

	summaries := make([]PickSummary, 0, len(picks))
	for _, name := range picks {
		r, ok := byName[name]
		if !ok {
			continue
		}
		band := bandFor(r.Rank)
		summaries = append(summaries, PickSummary{
			Name:       name,
			Rank:       r.Rank,
			OutOf:      len(ranking),
			Total:      r.Total,
			Percentage: r.Percentage,
			Band:       band,
			Message:    bandMessage(band, name, r.Rank, len(ranking)),
		})
	}
	return summaries
}

func bandFor(rank int) RankBand {
	switch {
	case rank <= topBandLimit:
		return BandTopTen
	case rank <= respectableBandLimit:
		return BandRespectable
	default:
		return BandRareGem
	}
}

func bandMessage(band RankBand, name string, rank, outOf int) string {
	switch band {
	case BandTopTen:
		return fmt.Sprintf("\"%s\": Your pick is in the top 10! A clear favorite!", name)
	case BandRespectable:
		return fmt.Sprintf("\"%s\": Your pick ranks #%d out of %d! A respectable choice!", name, rank, outOf)
	default:
		return fmt.Sprintf("\"%s\": Your pick ranks #%d out of %d — a rare gem!", name, rank, outOf)
	}
}

// TopToday returns the three best-selling pizzas on the calendar day of now,
// across every year in the data.
func TopToday(records []models.SalesRecord, now time.Time) []Total[string] {
	sameDay := Filter(records, func(r models.SalesRecord) bool {
		return r.HasDate() && r.Date.Month() == now.Month() && r.Date.Day() == now.Day()
	})

	totals := Aggregate(sameDay, ByPizza)
	SortByTotal(totals)
	if len(totals) > topTodayLimit {
		totals = totals[:topTodayLimit]
	}
	return totals
}

func CategoryTotals(records []models.SalesRecord) []models.CategoryTotal {
	totals := Aggregate(records, ByCategory)
	out := make([]models.CategoryTotal, len(totals))
	for i, t := range totals {
		out[i] = models.CategoryTotal{Category: t.Key, Total: t.Sum}
	}
	return out
}

// Hierarchy groups pizzas under their category, both levels sorted by total
// so the largest circles pack first.
func Hierarchy(records []models.SalesRecord) []models.CategoryGroup {
	nested := AggregateNested(records, ByCategory, ByPizza)
	groups := make([]models.CategoryGroup, len(nested))
	for i, g := range nested {
		SortByTotal(g.Items)
		pizzas := make([]models.PizzaTotal, len(g.Items))
		for j, item := range g.Items {
			pizzas[j] = models.PizzaTotal{Name: item.Key, Category: g.Key, Total: item.Sum}
		}
		groups[i] = models.CategoryGroup{Category: g.Key, Total: g.Sum, Pizzas: pizzas}
	}

	slices.SortStableFunc(groups, func(a, b models.CategoryGroup) int {
		return b.Total - a.Total
	})
	return groups
}

// PizzaCategories maps each pizza to the category it was first seen with.
func PizzaCategories(records []models.SalesRecord) map[string]string {
	categories := make(map[string]string)
	for _, r := range records {
		if _, ok := categories[r.PizzaName]; !ok {
			categories[r.PizzaName] = r.Category
		}
	}
	return categories
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
