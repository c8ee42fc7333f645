package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"resto-backend/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrTableNotFound = errors.New("table not found")
)

// MenuNotFoundError identifies which referenced menu item was missing so the
// handler can report it to the client.
type MenuNotFoundError struct {
	MenuID uint
}

func (e *MenuNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found", e.MenuID)
}

// OrderLineInput is one requested line: a menu reference and a quantity.
type OrderLineInput struct {
	MenuID   uint `json:"menuId"`
	Quantity int  `json:"quantity"`
}

type CreateOrderInput struct {
	TableID    uint               `json:"tableId"`
	OrderItems []OrderLineInput   `json:"orderItems"`
	Status     models.OrderStatus `json:"status"`
}

// UpdateOrderInput: nil OrderItems keeps the existing lines and total; an
// empty Status keeps the current status and skips occupancy side effects.
type UpdateOrderInput struct {
	TableID    uint               `json:"tableId"`
	OrderItems []OrderLineInput   `json:"orderItems"`
	Status     models.OrderStatus `json:"status"`
}

// OrderService owns the order state machine and its table-occupancy side
// effects. Every mutation runs inside a single transaction: total
// computation, line replacement and the occupancy write either all land or
// none do.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// priceLines resolves each requested line against the menu, snapshotting the
// current price, and returns the lines plus their summed total. A missing
// menu reference aborts the whole resolution.
func priceLines(tx *gorm.DB, lines []OrderLineInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		var menu models.Menu
		if err := tx.First(&menu, line.MenuID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, &MenuNotFoundError{MenuID: line.MenuID}
			}
			return nil, decimal.Zero, err
		}
		items = append(items, models.OrderItem{
			MenuID:   menu.ID,
			Quantity: line.Quantity,
			Price:    menu.Price,
		})
		total = total.Add(menu.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, total, nil
}

func setTableOccupied(tx *gorm.DB, tableID uint, occupied bool) error {
	return tx.Model(&models.Table{}).Where("id = ?", tableID).
		Update("is_occupied", occupied).Error
}

// Create persists a new order with snapshotted line prices and marks the
// table occupied.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		items, total, err := priceLines(tx, in.OrderItems)
		if err != nil {
			return err
		}

		order := models.Order{TableID: in.TableID, TotalAmount: total, Status: status}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		orderID = order.ID
		return setTableOccupied(tx, in.TableID, true)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

// Update rewrites an order. When lines are supplied they fully replace the
// old ones and the total is recomputed from current menu prices; otherwise
// the stored total stands. Occupancy follows the requested status: pending
// and preparing seat the table, completed frees it, anything else (including
// an omitted status) leaves it alone.
func (s *OrderService) Update(ctx context.Context, id uint, in UpdateOrderInput) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		total := order.TotalAmount
		if in.OrderItems != nil {
			items, newTotal, err := priceLines(tx, in.OrderItems)
			if err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = order.ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
			total = newTotal
		}

		tableID := order.TableID
		if in.TableID != 0 {
			tableID = in.TableID
		}
		status := order.Status
		if in.Status != "" {
			status = in.Status
		}

		updates := map[string]any{
			"table_id":     tableID,
			"total_amount": total,
			"status":       status,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		if occupied, ok := in.Status.TableOccupancy(); ok {
			return setTableOccupied(tx, tableID, occupied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an order and its lines and frees the table regardless of
// the order's status.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := setTableOccupied(tx, order.TableID, false); err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// Get loads one order with its table, lines and line menus.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("OrderItems.Menu").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
