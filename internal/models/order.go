package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusCompleted OrderStatus = "completed"
)

// statusOccupancy maps each known status to the table occupancy it implies.
// Statuses outside this table carry no occupancy side effect.
var statusOccupancy = map[OrderStatus]bool{
	StatusPending:   true,
	StatusPreparing: true,
	StatusCompleted: false,
}

// TableOccupancy reports the occupancy flag a write of this status implies.
// ok is false for unknown statuses, which must leave the table untouched.
func (s OrderStatus) TableOccupancy() (occupied, ok bool) {
	occupied, ok = statusOccupancy[s]
	return occupied, ok
}

// Order groups the lines served to one table. TotalAmount is derived from the
// lines at computation time and is never accepted from a client.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TableID     uint            `gorm:"not null;index" json:"tableId"`
	Table       *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status      OrderStatus     `gorm:"not null;default:'pending'" json:"status"`
	OrderItems  []OrderItem     `gorm:"foreignKey:OrderID" json:"orderItems"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderItem is one order line. Price is the menu price snapshotted when the
// line was (re)created, not a live reference to Menu.Price.
type OrderItem struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	OrderID  uint            `gorm:"not null;index" json:"orderId"`
	MenuID   uint            `gorm:"not null;index" json:"menuId"`
	Menu     *Menu           `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
