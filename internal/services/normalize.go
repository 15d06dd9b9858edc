package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"pizza-dashboard/internal/models"
)

// Order dates appear as day-month-year or month/day/year. The first layout
// that parses wins.
var orderDateLayouts = []string{
	"2-1-2006",
	"1/2/2006",
}

// NormalizeRow converts one CSV row, keyed by column name, into a
// SalesRecord. It never fails: an unparsable date yields a zero Date and an
// unparsable quantity yields 0.
func NormalizeRow(row map[string]string) models.SalesRecord {
	return models.SalesRecord{
		OrderID:   strings.TrimSpace(row[models.ColOrderID]),
		Date:      parseOrderDate(row[models.ColOrderDate]),
		OrderTime: strings.TrimSpace(row[models.ColOrderTime]),
		Quantity:  parseQuantity(row[models.ColQuantity]),
		PizzaName: strings.TrimSpace(row[models.ColPizzaName]),
		Category:  strings.TrimSpace(row[models.ColCategory]),
		Size:      strings.TrimSpace(row[models.ColPizzaSize]),
	}
}

func parseOrderDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseQuantity(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(f)
}
