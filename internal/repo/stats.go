package repo

import (
	"context"

	"github.com/kotenkov/event_market/internal/models"
)

type StatusCount struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total,omitempty"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type TopProduct struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	OrderCount  int64   `json:"order_count"`
	TotalSales  float64 `json:"total_sales"`
}

type AdminStats struct {
	Users             int64 `json:"users"`
	Vendors           int64 `json:"vendors"`
	ActiveMemberships int64 `json:"active_memberships"`
	ConfirmedOrders   int64 `json:"confirmed_orders"`
}

type VendorStats struct {
	Products      int64   `json:"products"`
	PendingOrders int64   `json:"pending_orders"`
	Revenue       float64 `json:"revenue"`
}

func (r *GormRepo) AdminDashboard(ctx context.Context) (*AdminStats, error) {
	db := r.DB.WithContext(ctx)
	var stats AdminStats

	if err := db.Model(&models.User{}).
		Where("role = ? AND active = ?", models.RoleUser, true).
		Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Vendor{}).
		Where("status = ?", models.VendorActive).
		Count(&stats.Vendors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Membership{}).
		Where("status = ?", models.MembershipActive).
		Count(&stats.ActiveMemberships).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("order_status = ?", models.OrderConfirmed).
		Count(&stats.ConfirmedOrders).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GormRepo) VendorDashboard(ctx context.Context, vendorID uint) (*VendorStats, error) {
	db := r.DB.WithContext(ctx)
	var stats VendorStats

	if err := db.Model(&models.Product{}).
		Where("vendor_id = ?", vendorID).
		Count(&stats.Products).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("vendor_id = ? AND order_status = ?", vendorID, models.OrderPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("vendor_id = ? AND order_status = ?", vendorID, models.OrderConfirmed).
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GormRepo) MembershipStatusCounts(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Membership{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *GormRepo) VendorStatusCounts(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Vendor{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *GormRepo) UserRoleCounts(ctx context.Context) ([]RoleCount, error) {
	var counts []RoleCount
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Where("active = ?", true).
		Group("role").
		Scan(&counts).Error
	return counts, err
}

func (r *GormRepo) OrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_status AS status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Group("order_status").
		Scan(&counts).Error
	return counts, err
}

func (r *GormRepo) OrderStatusCountsByVendor(ctx context.Context, vendorID uint) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_status AS status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Where("vendor_id = ?", vendorID).
		Group("order_status").
		Scan(&counts).Error
	return counts, err
}

func (r *GormRepo) ProductStatusCountsByVendor(ctx context.Context, vendorID uint) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("status, COUNT(*) AS count").
		Where("vendor_id = ?", vendorID).
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *GormRepo) TopProductsByVendor(ctx context.Context, vendorID uint, limit int) ([]TopProduct, error) {
	var products []TopProduct
	err := r.DB.WithContext(ctx).
		Table("products p").
		Select("p.id AS product_id, p.product_name, COUNT(oi.id) AS order_count, COALESCE(SUM(oi.total_price), 0) AS total_sales").
		Joins("LEFT JOIN order_items oi ON p.id = oi.product_id").
		Where("p.vendor_id = ?", vendorID).
		Group("p.id, p.product_name").
		Order("total_sales DESC").
		Limit(limit).
		Scan(&products).Error
	return products, err
}

func (r *GormRepo) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	var orders []OrderSummary
	err := r.DB.WithContext(ctx).
		Table("orders o").
		Select("o.*, u.name AS user_name, v.vendor_name").
		Joins("JOIN users u ON o.user_id = u.id").
		Joins("LEFT JOIN vendors v ON o.vendor_id = v.id").
		Order("o.created_at DESC").
		Limit(limit).
		Scan(&orders).Error
	return orders, err
}

func (r *GormRepo) RecentOrdersByVendor(ctx context.Context, vendorID uint, limit int) ([]OrderSummary, error) {
	var orders []OrderSummary
	err := r.DB.WithContext(ctx).
		Table("orders o").
		Select("o.*, u.name AS user_name, u.email AS user_email").
		Joins("JOIN users u ON o.user_id = u.id").
		Where("o.vendor_id = ?", vendorID).
		Order("o.created_at DESC").
		Limit(limit).
		Scan(&orders).Error
	return orders, err
}
