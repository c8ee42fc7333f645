package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Menu is a single sellable item on the restaurant menu.
// Price is the current unit price; order lines snapshot it at creation time
// so later edits never rewrite history.
type Menu struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
