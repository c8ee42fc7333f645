package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resto-backend/internal/models"
	"resto-backend/internal/repository"
)

func seedDashboardFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	menus := []models.Menu{
		{Name: "Nasi Goreng", Price: decimal.NewFromFloat(8.50)},
		{Name: "Iced Tea", Price: decimal.NewFromFloat(2.50)},
	}
	if err := db.Create(&menus).Error; err != nil {
		t.Fatalf("menus: %v", err)
	}
	tables := []models.Table{
		{TableNumber: 1, IsOccupied: true},
		{TableNumber: 2},
		{TableNumber: 3},
	}
	if err := db.Create(&tables).Error; err != nil {
		t.Fatalf("tables: %v", err)
	}
	orders := []models.Order{
		{TableID: tables[0].ID, Status: models.StatusPending, TotalAmount: decimal.NewFromFloat(8.50)},
		{TableID: tables[1].ID, Status: models.StatusCompleted, TotalAmount: decimal.NewFromFloat(11.00)},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("order: %v", err)
		}
		item := models.OrderItem{OrderID: orders[i].ID, MenuID: menus[0].ID, Quantity: 1, Price: menus[0].Price}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("item: %v", err)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedDashboardFixtures(t, db)
	h := NewDashboardHandler(db, repository.NewOrders(db), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	w := httptest.NewRecorder()
	h.Stats(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if payload["totalMenuItems"] != float64(2) {
		t.Fatalf("totalMenuItems = %v, want 2", payload["totalMenuItems"])
	}
	if payload["availableTables"] != float64(2) {
		t.Fatalf("availableTables = %v, want 2", payload["availableTables"])
	}
	if payload["todaysOrders"] != float64(2) {
		t.Fatalf("todaysOrders = %v, want 2", payload["todaysOrders"])
	}
	if payload["todaysRevenue"] != 19.50 {
		t.Fatalf("todaysRevenue = %v, want 19.5", payload["todaysRevenue"])
	}
	activities, ok := payload["recentActivities"].([]any)
	if !ok || len(activities) == 0 {
		t.Fatalf("recentActivities = %#v, want a non-empty feed", payload["recentActivities"])
	}
	if len(activities) > 8 {
		t.Fatalf("feed length = %d, want at most 8", len(activities))
	}
	first, ok := activities[0].(map[string]any)
	if !ok || first["action"] == "" || first["time"] == "" {
		t.Fatalf("malformed activity entry: %#v", activities[0])
	}
}

func TestDashboardTodayStats(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedDashboardFixtures(t, db)
	h := NewDashboardHandler(db, repository.NewOrders(db), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/today-stats", nil)
	w := httptest.NewRecorder()
	h.TodayStats(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var payload struct {
		Stats struct {
			TotalOrders       int     `json:"totalOrders"`
			CompletedOrders   int     `json:"completedOrders"`
			PendingOrders     int     `json:"pendingOrders"`
			TotalRevenue      float64 `json:"totalRevenue"`
			AverageOrderValue float64 `json:"averageOrderValue"`
		} `json:"stats"`
		PopularItems []map[string]any `json:"popularItems"`
		TodaysOrders []models.Order   `json:"todaysOrders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Stats.TotalOrders != 2 || payload.Stats.CompletedOrders != 1 || payload.Stats.PendingOrders != 1 {
		t.Fatalf("stats = %+v", payload.Stats)
	}
	if payload.Stats.TotalRevenue != 19.50 {
		t.Fatalf("totalRevenue = %v, want 19.5", payload.Stats.TotalRevenue)
	}
	if payload.Stats.AverageOrderValue != 9.75 {
		t.Fatalf("averageOrderValue = %v, want 9.75", payload.Stats.AverageOrderValue)
	}
	if len(payload.PopularItems) != 1 {
		t.Fatalf("popularItems = %v, want one tally", payload.PopularItems)
	}
	if payload.PopularItems[0]["totalQuantity"] != float64(2) {
		t.Fatalf("tally quantity = %v, want 2", payload.PopularItems[0]["totalQuantity"])
	}
	if len(payload.TodaysOrders) != 2 {
		t.Fatalf("todaysOrders = %d, want 2", len(payload.TodaysOrders))
	}
}
