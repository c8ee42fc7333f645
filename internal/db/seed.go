package db

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"resto-backend/internal/models"
)

// Seed installs a small baseline menu and table set for development.
// It is idempotent: existing rows are left alone.
func Seed(db *gorm.DB) {
	baseMenus := []models.Menu{
		{Name: "Nasi Goreng", Price: decimal.NewFromFloat(8.50)},
		{Name: "Chicken Satay", Price: decimal.NewFromFloat(6.00)},
		{Name: "Iced Tea", Price: decimal.NewFromFloat(2.50)},
	}
	for _, m := range baseMenus {
		var existing models.Menu
		if err := db.Where("name = ?", m.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&m)
		}
	}
	for n := 1; n <= 8; n++ {
		var existing models.Table
		if err := db.Where("table_number = ?", n).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&models.Table{TableNumber: n})
		}
	}
}
