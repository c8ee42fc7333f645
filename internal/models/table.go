package models

import "time"

// Table is a physical restaurant table. IsOccupied is owned by the order
// lifecycle: creating an order seats the table, completing or deleting the
// order frees it.
type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"not null;unique" json:"tableNumber"`
	IsOccupied  bool      `gorm:"not null;default:false" json:"isOccupied"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
