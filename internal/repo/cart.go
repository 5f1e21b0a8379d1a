package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kotenkov/event_market/internal/models"
)

// CartRow is one cart entry joined with its product and vendor.
type CartRow struct {
	CartItemID  uint    `json:"cart_item_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    uint    `json:"quantity"`
	VendorID    uint    `json:"vendor_id"`
	VendorName  string  `json:"vendor_name"`
}

// SetCartItem replaces the quantity of the (user, product) row, inserting it
// when absent. Re-adding a product never duplicates the row.
func (r *GormRepo) SetCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", item.Quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
				First(item).Error
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) GetCartItem(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) UpdateCartQuantity(ctx context.Context, id uint, quantity uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.CartItem{}, id).Error
}

// CartRows returns the user's whole cart joined with products and vendors,
// ordered by vendor then product name so grouping is stable.
func (r *GormRepo) CartRows(ctx context.Context, userID uint) ([]CartRow, error) {
	var rows []CartRow
	err := r.DB.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.id AS cart_item_id, ci.quantity, p.id AS product_id, p.product_name, p.price, v.id AS vendor_id, v.vendor_name").
		Joins("JOIN products p ON ci.product_id = p.id").
		Joins("JOIN vendors v ON p.vendor_id = v.id").
		Where("ci.user_id = ?", userID).
		Order("v.vendor_name, p.product_name").
		Scan(&rows).Error
	return rows, err
}

// CartRowsForVendor returns the user's cart entries for a single vendor,
// locking the cart rows when called inside a transaction.
func (r *GormRepo) CartRowsForVendor(ctx context.Context, userID, vendorID uint) ([]CartRow, error) {
	var rows []CartRow
	err := r.DB.WithContext(ctx).
		Table("cart_items ci").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "ci"}}).
		Select("ci.id AS cart_item_id, ci.quantity, p.id AS product_id, p.product_name, p.price, v.id AS vendor_id, v.vendor_name").
		Joins("JOIN products p ON ci.product_id = p.id").
		Joins("JOIN vendors v ON p.vendor_id = v.id").
		Where("ci.user_id = ? AND p.vendor_id = ?", userID, vendorID).
		Order("p.product_name").
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) DeleteCartItems(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Delete(&models.CartItem{}, ids).Error
}
