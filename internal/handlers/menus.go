package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resto-backend/internal/httpx"
	"resto-backend/internal/models"
	"resto-backend/internal/validation"
)

type MenuHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewMenuHandler(db *gorm.DB, log *zap.Logger) *MenuHandler {
	return &MenuHandler{DB: db, Log: log}
}

type menuRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var menus []models.Menu
	if err := h.DB.WithContext(r.Context()).Order("name ASC").Find(&menus).Error; err != nil {
		h.Log.Error("menu listing failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, menus)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	var menu models.Menu
	if err := h.DB.WithContext(r.Context()).First(&menu, chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "not_found", "Menu not found")
			return
		}
		h.Log.Error("menu load failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, menu)
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "Malformed request body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.NonNegativeDecimal("price", req.Price, v)
	if !v.Empty() {
		httpx.ValidationError(w, "Invalid menu payload", v)
		return
	}

	menu := models.Menu{Name: req.Name, Price: req.Price}
	if err := h.DB.WithContext(r.Context()).Create(&menu).Error; err != nil {
		h.Log.Error("menu create failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusCreated, menu)
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var menu models.Menu
	if err := h.DB.WithContext(r.Context()).First(&menu, chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "not_found", "Menu not found")
			return
		}
		h.Log.Error("menu load failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	var req menuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "Malformed request body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.NonNegativeDecimal("price", req.Price, v)
	if !v.Empty() {
		httpx.ValidationError(w, "Invalid menu payload", v)
		return
	}

	// Price edits apply to future lines only; existing order lines keep the
	// price snapshotted when they were created.
	menu.Name = req.Name
	menu.Price = req.Price
	if err := h.DB.WithContext(r.Context()).Save(&menu).Error; err != nil {
		h.Log.Error("menu update failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, menu)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var menu models.Menu
	if err := h.DB.WithContext(r.Context()).First(&menu, chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "not_found", "Menu not found")
			return
		}
		h.Log.Error("menu load failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&menu).Error; err != nil {
		h.Log.Error("menu delete failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Menu deleted successfully"})
}
