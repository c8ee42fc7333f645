package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"resto-backend/internal/models"
	"resto-backend/internal/reports"
)

// OrderFilters narrows windowed order queries. Zero values are ignored.
type OrderFilters struct {
	OrderID     uint
	Status      models.OrderStatus
	TableNumber int
}

// MenuTally is one row of the store-level popular-items aggregation:
// summed quantity per menu joined against its current name and price.
type MenuTally struct {
	MenuID        uint            `json:"menuId"`
	Name          string          `json:"name"`
	TotalQuantity int64           `json:"totalQuantity"`
	Price         decimal.Decimal `json:"price"`
}

// Orders queries the relational store for orders and their derived feeds.
type Orders struct {
	db *gorm.DB
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

func (r *Orders) windowed(ctx context.Context, w reports.Window, f OrderFilters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("orders.created_at BETWEEN ? AND ?", w.Start, w.End)
	return r.filtered(q, f)
}

func (r *Orders) filtered(q *gorm.DB, f OrderFilters) *gorm.DB {
	if f.OrderID != 0 {
		q = q.Where("orders.id = ?", f.OrderID)
	}
	if f.Status != "" {
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.TableNumber != 0 {
		q = q.Joins("JOIN tables ON tables.id = orders.table_id").
			Where("tables.table_number = ?", f.TableNumber)
	}
	return q
}

// FindInWindow returns the orders created inside the window, newest first,
// with lines, line menus and owning tables loaded.
func (r *Orders) FindInWindow(ctx context.Context, w reports.Window, f OrderFilters) ([]models.Order, error) {
	var orders []models.Order
	err := r.windowed(ctx, w, f).
		Preload("Table").
		Preload("OrderItems.Menu").
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindPage is the listing variant: a half-open [from, to) interval with
// pagination, used by the order listing endpoint.
func (r *Orders) FindPage(ctx context.Context, from, to time.Time, f OrderFilters, limit, offset int) ([]models.Order, int64, error) {
	page := func() *gorm.DB {
		return r.filtered(r.db.WithContext(ctx).Model(&models.Order{}).
			Where("orders.created_at >= ? AND orders.created_at < ?", from, to), f)
	}

	var total int64
	if err := page().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	err := page().
		Preload("Table").
		Preload("OrderItems.Menu").
		Order("orders.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

// CountInWindow counts orders created inside the window.
func (r *Orders) CountInWindow(ctx context.Context, w reports.Window) (int64, error) {
	var n int64
	err := r.windowed(ctx, w, OrderFilters{}).Count(&n).Error
	return n, err
}

// RevenueInWindow sums order totals inside the window.
func (r *Orders) RevenueInWindow(ctx context.Context, w reports.Window) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.windowed(ctx, w, OrderFilters{}).
		Select("COALESCE(SUM(orders.total_amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// yearExpr and monthExpr extract calendar parts portably across the two
// supported dialects.
func (r *Orders) yearExpr() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "CAST(strftime('%Y', orders.created_at) AS INTEGER)"
	}
	return "CAST(EXTRACT(YEAR FROM orders.created_at) AS INTEGER)"
}

func (r *Orders) monthExpr() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "CAST(strftime('%m', orders.created_at) AS INTEGER)"
	}
	return "CAST(EXTRACT(MONTH FROM orders.created_at) AS INTEGER)"
}

// DistinctYears lists the years that have at least one order, newest first.
func (r *Orders) DistinctYears(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT " + r.yearExpr() + " AS year FROM orders ORDER BY year DESC").
		Scan(&years).Error
	return years, err
}

// DistinctMonths lists the months of the given year that have orders, ascending.
func (r *Orders) DistinctMonths(ctx context.Context, year int) ([]int, error) {
	var months []int
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT "+r.monthExpr()+" AS month FROM orders WHERE "+r.yearExpr()+" = ? ORDER BY month ASC", year).
		Scan(&months).Error
	return months, err
}

// PopularInWindow is the store-level ranking: quantities grouped per menu id
// and joined against the menu's current name and price. Ties fall back to the
// store's default ordering.
func (r *Orders) PopularInWindow(ctx context.Context, w reports.Window, limit int) ([]MenuTally, error) {
	var tallies []MenuTally
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.menu_id AS menu_id, menus.name AS name, menus.price AS price, SUM(order_items.quantity) AS total_quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN menus ON menus.id = order_items.menu_id").
		Where("orders.created_at BETWEEN ? AND ?", w.Start, w.End).
		Group("order_items.menu_id, menus.name, menus.price").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&tallies).Error
	return tallies, err
}

// RecentOrders feeds the activity merge: latest orders with their tables.
func (r *Orders) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Table").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// RecentMenuUpdates feeds the activity merge: latest touched menu items.
func (r *Orders) RecentMenuUpdates(ctx context.Context, limit int) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&menus).Error
	return menus, err
}

// RecentTableChanges feeds the activity merge: tables touched since the cutoff.
func (r *Orders) RecentTableChanges(ctx context.Context, since time.Time, limit int) ([]models.Table, error) {
	var tables []models.Table
	err := r.db.WithContext(ctx).
		Where("updated_at >= ?", since).
		Order("updated_at DESC").
		Limit(limit).
		Find(&tables).Error
	return tables, err
}
