package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"resto-backend/internal/models"
)

// PopularItem is the name/count ranking entry used by the report summary.
type PopularItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary holds the derived statistics for one order set. Monetary values
// stay as decimals here; callers format them at the serialization boundary.
type Summary struct {
	TotalSales        decimal.Decimal
	TotalOrders       int
	CompletedOrders   int
	PendingOrders     int
	PreparingOrders   int
	AverageOrderValue decimal.Decimal
	CompletedSales    decimal.Decimal
	PopularItems      []PopularItem
}

// Summarize computes report statistics over an already-loaded order set.
// It is a pure function of its input: no store access, no clock.
func Summarize(orders []models.Order) Summary {
	s := Summary{
		TotalOrders:  len(orders),
		PopularItems: RankPopularItems(orders, 5),
	}
	for _, o := range orders {
		s.TotalSales = s.TotalSales.Add(o.TotalAmount)
		switch o.Status {
		case models.StatusCompleted:
			s.CompletedOrders++
			s.CompletedSales = s.CompletedSales.Add(o.TotalAmount)
		case models.StatusPending:
			s.PendingOrders++
		case models.StatusPreparing:
			s.PreparingOrders++
		}
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalSales.Div(decimal.NewFromInt(int64(s.TotalOrders)))
	}
	return s
}

// RankPopularItems sums line quantities per menu name across the order set
// and returns the top entries by quantity. Ties keep first-encounter order,
// so the ranking is deterministic for a stable input.
func RankPopularItems(orders []models.Order, limit int) []PopularItem {
	index := make(map[string]int)
	items := make([]PopularItem, 0)
	for _, o := range orders {
		for _, line := range o.OrderItems {
			if line.Menu == nil {
				continue
			}
			i, seen := index[line.Menu.Name]
			if !seen {
				i = len(items)
				index[line.Menu.Name] = i
				items = append(items, PopularItem{Name: line.Menu.Name})
			}
			items[i].Count += line.Quantity
		}
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].Count > items[b].Count })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
