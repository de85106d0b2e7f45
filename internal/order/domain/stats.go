package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayStats struct {
	OrderCount int             `json:"order_count"`
	UnitsSold  int             `json:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// DayStatistics aggregates the orders created on ref's calendar day, using
// ref's location for the midnight boundary.
func DayStatistics(orders []Order, ref time.Time) DayStats {
	loc := ref.Location()
	y, m, d := ref.Date()

	stats := DayStats{Revenue: decimal.Zero}
	for _, o := range orders {
		oy, om, od := o.CreatedAt.In(loc).Date()
		if oy != y || om != m || od != d {
			continue
		}
		stats.OrderCount++
		stats.UnitsSold += o.UnitCount()
		stats.Revenue = stats.Revenue.Add(o.Total)
	}
	return stats
}
