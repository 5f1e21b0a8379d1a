package repo

import (
	"context"

	"github.com/kotenkov/event_market/internal/models"
)

// OrderSummary is an order joined with its counterparty's display name.
type OrderSummary struct {
	models.Order
	VendorName string `json:"vendor_name,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
}

// OrderItemRow is an order line joined with its product name.
type OrderItemRow struct {
	models.OrderItem
	ProductName string `json:"product_name"`
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&items).Error
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]OrderSummary, error) {
	var orders []OrderSummary
	err := r.DB.WithContext(ctx).
		Table("orders o").
		Select("o.*, v.vendor_name").
		Joins("JOIN vendors v ON o.vendor_id = v.id").
		Where("o.user_id = ?", userID).
		Order("o.created_at DESC").
		Scan(&orders).Error
	return orders, err
}

func (r *GormRepo) ListOrdersByVendor(ctx context.Context, vendorID uint) ([]OrderSummary, error) {
	var orders []OrderSummary
	err := r.DB.WithContext(ctx).
		Table("orders o").
		Select("o.*, u.name AS user_name, u.email AS user_email").
		Joins("JOIN users u ON o.user_id = u.id").
		Where("o.vendor_id = ?", vendorID).
		Order("o.created_at DESC").
		Scan(&orders).Error
	return orders, err
}

// OrderItemsForOrders fetches the lines of all given orders in one query.
func (r *GormRepo) OrderItemsForOrders(ctx context.Context, orderIDs []uint) ([]OrderItemRow, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []OrderItemRow
	err := r.DB.WithContext(ctx).
		Table("order_items oi").
		Select("oi.*, p.product_name").
		Joins("JOIN products p ON oi.product_id = p.id").
		Where("oi.order_id IN ?", orderIDs).
		Order("oi.order_id, oi.id").
		Scan(&items).Error
	return items, err
}
