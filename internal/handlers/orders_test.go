package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resto-backend/internal/models"
	"resto-backend/internal/repository"
	"resto-backend/internal/services"
)

func orderRouter(db *gorm.DB) chi.Router {
	h := NewOrderHandler(services.NewOrderService(db), repository.NewOrders(db), zap.NewNop())
	r := chi.NewRouter()
	r.Get("/orders", h.List)
	r.Post("/orders", h.Create)
	r.Get("/orders/{id}", h.Get)
	r.Put("/orders/{id}", h.Update)
	r.Delete("/orders/{id}", h.Delete)
	return r
}

func seedOrderHandlerFixtures(t *testing.T, db *gorm.DB) (models.Table, models.Menu) {
	t.Helper()
	table := models.Table{TableNumber: 4}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("table: %v", err)
	}
	menu := models.Menu{Name: "Chicken Satay", Price: decimal.NewFromFloat(6.00)}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("menu: %v", err)
	}
	return table, menu
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	db := setupHandlerTestDB(t)
	table, menu := seedOrderHandlerFixtures(t, db)
	r := orderRouter(db)

	// Create
	body := `{"tableId":` + strconv.Itoa(int(table.ID)) +
		`,"orderItems":[{"menuId":` + strconv.Itoa(int(menu.ID)) + `,"quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	var created models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if got := created.TotalAmount.StringFixed(2); got != "18.00" {
		t.Fatalf("total = %s, want 18.00", got)
	}

	var seated models.Table
	db.First(&seated, table.ID)
	if !seated.IsOccupied {
		t.Fatal("table should be occupied after create")
	}

	// Complete via update
	id := strconv.Itoa(int(created.ID))
	req = httptest.NewRequest(http.MethodPut, "/orders/"+id, strings.NewReader(`{"status":"completed"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", w.Code, w.Body.String())
	}
	db.First(&seated, table.ID)
	if seated.IsOccupied {
		t.Fatal("table should be free after completion")
	}

	// Get
	req = httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var fetched models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if fetched.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", fetched.Status)
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/orders/"+id, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", w.Code)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupHandlerTestDB(t)
	table, _ := seedOrderHandlerFixtures(t, db)
	r := orderRouter(db)

	cases := []struct {
		name string
		body string
	}{
		{"no lines", `{"tableId":` + strconv.Itoa(int(table.ID)) + `,"orderItems":[]}`},
		{"no table", `{"orderItems":[{"menuId":1,"quantity":1}]}`},
		{"zero quantity", `{"tableId":` + strconv.Itoa(int(table.ID)) + `,"orderItems":[{"menuId":1,"quantity":0}]}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tc.body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", tc.name, w.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if resp["error"] != "validation_failed" {
			t.Fatalf("%s: error = %v", tc.name, resp["error"])
		}
	}
}

func TestCreateOrderUnknownMenuReports400(t *testing.T) {
	db := setupHandlerTestDB(t)
	table, _ := seedOrderHandlerFixtures(t, db)
	r := orderRouter(db)

	body := `{"tableId":` + strconv.Itoa(int(table.ID)) + `,"orderItems":[{"menuId":9999,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "menu_not_found" {
		t.Fatalf("error = %v, want menu_not_found", resp["error"])
	}

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Fatalf("failed create persisted %d orders", orders)
	}
}

func TestOrderListPagination(t *testing.T) {
	db := setupHandlerTestDB(t)
	table, menu := seedOrderHandlerFixtures(t, db)
	r := orderRouter(db)

	for i := 0; i < 15; i++ {
		o := models.Order{TableID: table.ID, Status: models.StatusCompleted, TotalAmount: menu.Price}
		if err := db.Create(&o).Error; err != nil {
			t.Fatalf("order: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/orders?limit=10&page=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Orders      []models.Order `json:"orders"`
		TotalCount  int64          `json:"totalCount"`
		TotalPages  int            `json:"totalPages"`
		CurrentPage int            `json:"currentPage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalCount != 15 || resp.TotalPages != 2 || resp.CurrentPage != 2 {
		t.Fatalf("pagination = %d/%d/page %d, want 15/2/2", resp.TotalCount, resp.TotalPages, resp.CurrentPage)
	}
	if len(resp.Orders) != 5 {
		t.Fatalf("page 2 size = %d, want 5", len(resp.Orders))
	}
}

func TestOrderListStatusFilter(t *testing.T) {
	db := setupHandlerTestDB(t)
	table, _ := seedOrderHandlerFixtures(t, db)
	r := orderRouter(db)

	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusCompleted, models.StatusCompleted} {
		o := models.Order{TableID: table.ID, Status: status}
		if err := db.Create(&o).Error; err != nil {
			t.Fatalf("order: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/orders?status=completed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp struct {
		Orders     []models.Order `json:"orders"`
		TotalCount int64          `json:"totalCount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalCount != 2 {
		t.Fatalf("filtered count = %d, want 2", resp.TotalCount)
	}
	for _, o := range resp.Orders {
		if o.Status != models.StatusCompleted {
			t.Fatalf("filter leaked status %s", o.Status)
		}
	}
}
