package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"resto-backend/internal/httpx"
	"resto-backend/internal/models"
	"resto-backend/internal/repository"
	"resto-backend/internal/services"
	"resto-backend/internal/validation"
)

// OrderHandler exposes the order CRUD surface; all state changes go through
// the lifecycle service so occupancy side effects stay in one place.
type OrderHandler struct {
	Svc  *services.OrderService
	Repo *repository.Orders
	Log  *zap.Logger
}

func NewOrderHandler(svc *services.OrderService, repo *repository.Orders, log *zap.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Repo: repo, Log: log}
}

func orderIDParam(r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func validateLines(lines []services.OrderLineInput) validation.Violations {
	v := validation.Violations{}
	if len(lines) == 0 {
		v["orderItems"] = "required"
		return v
	}
	for _, line := range lines {
		if line.MenuID == 0 {
			v["orderItems.menuId"] = "required"
		}
		validation.PositiveInt("orderItems.quantity", line.Quantity, v)
	}
	return v
}

func (h *OrderHandler) writeLifecycleError(w http.ResponseWriter, err error) {
	var menuErr *services.MenuNotFoundError
	switch {
	case errors.As(err, &menuErr):
		httpx.Error(w, http.StatusBadRequest, "menu_not_found", "Menu item "+strconv.Itoa(int(menuErr.MenuID))+" not found")
	case errors.Is(err, services.ErrTableNotFound):
		httpx.Error(w, http.StatusBadRequest, "table_not_found", "Table not found")
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.Error(w, http.StatusNotFound, "not_found", "Order not found")
	default:
		h.Log.Error("order mutation failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
	}
}

// List serves GET /orders with optional filters and pagination. Without an
// explicit date range the listing covers the current calendar month.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := repository.OrderFilters{
		OrderID:     uint(atoi(q.Get("orderId"))),
		Status:      models.OrderStatus(q.Get("status")),
		TableNumber: atoi(q.Get("tableNumber")),
	}

	limit := 10
	if n := atoi(q.Get("limit")); n > 0 && n <= 200 {
		limit = n
	}
	page := 1
	if n := atoi(q.Get("page")); n > 1 {
		page = n
	}

	now := time.Now()
	var from, to time.Time
	if q.Get("fromDate") != "" || q.Get("toDate") != "" {
		to = now.AddDate(100, 0, 0)
		if d, err := time.ParseInLocation("2006-01-02", q.Get("fromDate"), time.Local); err == nil {
			from = d
		}
		if d, err := time.ParseInLocation("2006-01-02", q.Get("toDate"), time.Local); err == nil {
			// inclusive toDate: bound strictly before the following day
			to = d.AddDate(0, 0, 1)
		}
	} else {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	}

	orders, total, err := h.Repo.FindPage(r.Context(), from, to, filters, limit, (page-1)*limit)
	if err != nil {
		h.Log.Error("order listing failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders":      orders,
		"totalCount":  total,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// Get serves GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		httpx.ValidationError(w, "Invalid order id", nil)
		return
	}
	order, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Create serves POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "Malformed request body")
		return
	}
	v := validateLines(in.OrderItems)
	if in.TableID == 0 {
		v["tableId"] = "required"
	}
	if !v.Empty() {
		httpx.ValidationError(w, "Invalid order payload", v)
		return
	}

	order, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

// Update serves PUT /orders/{id}. Omitted fields keep their stored values;
// a new line list fully replaces the old one.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		httpx.ValidationError(w, "Invalid order id", nil)
		return
	}
	var in services.UpdateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "Malformed request body")
		return
	}
	if in.OrderItems != nil {
		if v := validateLines(in.OrderItems); !v.Empty() {
			httpx.ValidationError(w, "Invalid order payload", v)
			return
		}
	}

	order, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Delete serves DELETE /orders/{id}. The table is freed no matter what
// status the order was in.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		httpx.ValidationError(w, "Invalid order id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
