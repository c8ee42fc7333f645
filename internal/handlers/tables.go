package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resto-backend/internal/httpx"
	"resto-backend/internal/models"
	"resto-backend/internal/validation"
)

type TableHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewTableHandler(db *gorm.DB, log *zap.Logger) *TableHandler {
	return &TableHandler{DB: db, Log: log}
}

type tableRequest struct {
	TableNumber int `json:"tableNumber"`
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	var tables []models.Table
	if err := h.DB.WithContext(r.Context()).Order("table_number ASC").Find(&tables).Error; err != nil {
		h.Log.Error("table listing failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, tables)
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	var table models.Table
	if err := h.DB.WithContext(r.Context()).First(&table, chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "not_found", "Table not found")
			return
		}
		h.Log.Error("table load failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, table)
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "Malformed request body")
		return
	}
	v := validation.Violations{}
	validation.PositiveInt("tableNumber", req.TableNumber, v)
	if v.Empty() {
		var count int64
		h.DB.WithContext(r.Context()).Model(&models.Table{}).
			Where("table_number = ?", req.TableNumber).Count(&count)
		if count > 0 {
			v["tableNumber"] = "already_taken"
		}
	}
	if !v.Empty() {
		httpx.ValidationError(w, "Invalid table payload", v)
		return
	}

	table := models.Table{TableNumber: req.TableNumber}
	if err := h.DB.WithContext(r.Context()).Create(&table).Error; err != nil {
		h.Log.Error("table create failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusCreated, table)
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	var table models.Table
	if err := h.DB.WithContext(r.Context()).First(&table, chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "not_found", "Table not found")
			return
		}
		h.Log.Error("table load failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "Malformed request body")
		return
	}
	v := validation.Violations{}
	validation.PositiveInt("tableNumber", req.TableNumber, v)
	if !v.Empty() {
		httpx.ValidationError(w, "Invalid table payload", v)
		return
	}

	table.TableNumber = req.TableNumber
	if err := h.DB.WithContext(r.Context()).Save(&table).Error; err != nil {
		h.Log.Error("table update failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, table)
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var table models.Table
	if err := h.DB.WithContext(r.Context()).First(&table, chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "not_found", "Table not found")
			return
		}
		h.Log.Error("table load failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&table).Error; err != nil {
		h.Log.Error("table delete failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Table deleted successfully"})
}
