package repo

import (
	"context"

	"github.com/kotenkov/event_market/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetAvailableProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.ProductAvailable).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (r *GormRepo) UpdateProductStatus(ctx context.Context, id uint, status string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormRepo) ListProductsByVendor(ctx context.Context, vendorID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *GormRepo) ListAvailableProducts(ctx context.Context, vendorID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("vendor_id = ? AND status = ?", vendorID, models.ProductAvailable).
		Order("product_name").
		Find(&products).Error
	return products, err
}
