package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"resto-backend/internal/models"
)

// Activity is the common shape every recent-event source is mapped into
// before merging, so downstream code never special-cases the three feeds.
type Activity struct {
	Action    string    `json:"action"`
	Time      string    `json:"time"`
	Details   string    `json:"details"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

var orderActions = map[models.OrderStatus]string{
	models.StatusPending:   "New order placed",
	models.StatusPreparing: "Order in preparation",
	models.StatusCompleted: "Order completed",
}

// MergeActivities folds recent orders, menu updates and table occupancy
// changes into one feed, newest first, truncated to limit. The inputs come
// from three independent queries; merging and re-sorting happens here.
func MergeActivities(orders []models.Order, menus []models.Menu, tables []models.Table, now time.Time, limit int) []Activity {
	activities := make([]Activity, 0, len(orders)+len(menus)+len(tables))

	for _, o := range orders {
		action, ok := orderActions[o.Status]
		if !ok {
			action = "Order updated"
		}
		details := ""
		if o.Table != nil {
			details = fmt.Sprintf("Table %d", o.Table.TableNumber)
		}
		activities = append(activities, Activity{
			Action:    action,
			Time:      relTime(o.CreatedAt, now),
			Details:   details,
			Type:      "order",
			CreatedAt: o.CreatedAt,
		})
	}

	for _, m := range menus {
		a := Activity{Action: "Menu item updated", Details: m.Name, Type: "menu", CreatedAt: m.UpdatedAt}
		if m.CreatedAt.Equal(m.UpdatedAt) {
			a.Action = "Menu item added"
			a.CreatedAt = m.CreatedAt
		}
		a.Time = relTime(a.CreatedAt, now)
		activities = append(activities, a)
	}

	for _, t := range tables {
		action := "Table available"
		if t.IsOccupied {
			action = "Table occupied"
		}
		activities = append(activities, Activity{
			Action:    action,
			Time:      relTime(t.UpdatedAt, now),
			Details:   fmt.Sprintf("Table %d", t.TableNumber),
			Type:      "table",
			CreatedAt: t.UpdatedAt,
		})
	}

	sort.SliceStable(activities, func(a, b int) bool {
		return activities[a].CreatedAt.After(activities[b].CreatedAt)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

func relTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
