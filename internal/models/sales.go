package models

import "time"

// CSV column names read by the normalizer.
const (
	ColOrderID   = "order_id"
	ColOrderDate = "order_date"
	ColOrderTime = "order_time"
	ColQuantity  = "quantity"
	ColPizzaName = "pizza_name"
	ColCategory  = "pizza_category"
	ColPizzaSize = "pizza_size"
)

// SalesRecord is one normalized sales line. A zero Date means the
// order_date column could not be parsed.
type SalesRecord struct {
	OrderID   string
	Date      time.Time
	OrderTime string
	Quantity  int
	PizzaName string
	Category  string
	Size      string
}

// HasDate reports whether the record can take part in time-bucketed
// aggregations.
func (r SalesRecord) HasDate() bool {
	return !r.Date.IsZero()
}

type PizzaRank struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"pizza_name"`
	Category   string  `json:"category"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}

type PizzaTotal struct {
	Name     string `json:"pizza_name"`
	Category string `json:"category"`
	Total    int    `json:"total"`
}

type CategoryGroup struct {
	Category string       `json:"category"`
	Total    int          `json:"total"`
	Pizzas   []PizzaTotal `json:"pizzas"`
}
