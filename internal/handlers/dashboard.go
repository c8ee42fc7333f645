package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resto-backend/internal/httpx"
	"resto-backend/internal/models"
	"resto-backend/internal/reports"
	"resto-backend/internal/repository"
)

// DashboardHandler serves the operational snapshot endpoints.
type DashboardHandler struct {
	DB   *gorm.DB
	Repo *repository.Orders
	Log  *zap.Logger
}

func NewDashboardHandler(db *gorm.DB, repo *repository.Orders, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{DB: db, Repo: repo, Log: log}
}

// Stats serves GET /dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	today := reports.ResolveWindow(reports.WindowParams{Period: "daily"}, now)

	var totalMenuItems, availableTables int64
	if err := h.DB.WithContext(ctx).Model(&models.Menu{}).Count(&totalMenuItems).Error; err != nil {
		h.Log.Error("menu count failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to load dashboard stats")
		return
	}
	if err := h.DB.WithContext(ctx).Model(&models.Table{}).Where("is_occupied = ?", false).Count(&availableTables).Error; err != nil {
		h.Log.Error("table count failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to load dashboard stats")
		return
	}
	todaysOrders, err := h.Repo.CountInWindow(ctx, today)
	if err != nil {
		h.Log.Error("todays order count failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to load dashboard stats")
		return
	}
	todaysRevenue, err := h.Repo.RevenueInWindow(ctx, today)
	if err != nil {
		h.Log.Error("todays revenue failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to load dashboard stats")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"totalMenuItems":   totalMenuItems,
		"availableTables":  availableTables,
		"todaysOrders":     todaysOrders,
		"todaysRevenue":    todaysRevenue.Round(2).InexactFloat64(),
		"recentActivities": h.recentActivities(ctx, now),
	})
}

// recentActivities assembles the merged feed. Each source degrades to empty
// on failure; a broken feed never takes the dashboard down with it.
func (h *DashboardHandler) recentActivities(ctx context.Context, now time.Time) []reports.Activity {
	orders, err := h.Repo.RecentOrders(ctx, 10)
	if err != nil {
		h.Log.Warn("recent orders feed failed", zap.Error(err))
		return []reports.Activity{}
	}
	menus, err := h.Repo.RecentMenuUpdates(ctx, 5)
	if err != nil {
		h.Log.Warn("recent menu feed failed", zap.Error(err))
		return []reports.Activity{}
	}
	tables, err := h.Repo.RecentTableChanges(ctx, now.Add(-24*time.Hour), 5)
	if err != nil {
		h.Log.Warn("recent table feed failed", zap.Error(err))
		return []reports.Activity{}
	}
	return reports.MergeActivities(orders, menus, tables, now, 8)
}

// TodayStats serves GET /dashboard/today-stats.
func (h *DashboardHandler) TodayStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := reports.ResolveWindow(reports.WindowParams{Period: "daily"}, time.Now())

	orders, err := h.Repo.FindInWindow(ctx, today, repository.OrderFilters{})
	if err != nil {
		h.Log.Error("todays orders failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to load today stats")
		return
	}
	summary := reports.Summarize(orders)

	popular, err := h.Repo.PopularInWindow(ctx, today, 5)
	if err != nil {
		h.Log.Warn("popular items failed", zap.Error(err))
		popular = []repository.MenuTally{}
	}

	recent := orders
	if len(recent) > 10 {
		recent = recent[:10]
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"totalOrders":       summary.TotalOrders,
			"completedOrders":   summary.CompletedOrders,
			"pendingOrders":     summary.PendingOrders,
			"preparingOrders":   summary.PreparingOrders,
			"totalRevenue":      summary.TotalSales.Round(2).InexactFloat64(),
			"averageOrderValue": summary.AverageOrderValue.Round(2).InexactFloat64(),
		},
		"popularItems": popular,
		"todaysOrders": recent,
	})
}
