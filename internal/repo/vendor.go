package repo

import (
	"context"
	"time"

	"github.com/kotenkov/event_market/internal/models"
)

// VendorListing is a vendor row with its live product count.
type VendorListing struct {
	models.Vendor
	ProductCount int64 `json:"product_count"`
}

// VendorWithMembership is a vendor joined with its Active membership, if any.
type VendorWithMembership struct {
	models.Vendor
	MembershipNo     string     `json:"membership_no,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	MembershipStatus string     `json:"membership_status,omitempty"`
}

func (r *GormRepo) CreateVendor(ctx context.Context, v *models.Vendor) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) GetVendor(ctx context.Context, id uint) (*models.Vendor, error) {
	var v models.Vendor
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) GetActiveVendor(ctx context.Context, id uint) (*models.Vendor, error) {
	var v models.Vendor
	err := r.DB.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.VendorActive).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) GetVendorByUserID(ctx context.Context, userID uint) (*models.Vendor, error) {
	var v models.Vendor
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListActiveVendors returns active vendors with product counts, optionally
// filtered by category, ordered by vendor name.
func (r *GormRepo) ListActiveVendors(ctx context.Context, category string) ([]VendorListing, error) {
	q := r.DB.WithContext(ctx).
		Table("vendors v").
		Select("v.*, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN products p ON v.id = p.vendor_id").
		Where("v.status = ?", models.VendorActive)
	if category != "" {
		q = q.Where("v.category = ?", category)
	}

	var vendors []VendorListing
	err := q.Group("v.id").Order("v.vendor_name").Scan(&vendors).Error
	return vendors, err
}

func (r *GormRepo) ListVendorsWithMembership(ctx context.Context) ([]VendorWithMembership, error) {
	var vendors []VendorWithMembership
	err := r.DB.WithContext(ctx).
		Table("vendors v").
		Select("v.*, vm.membership_no, vm.end_date, vm.status AS membership_status").
		Joins("LEFT JOIN vendor_memberships vm ON v.id = vm.vendor_id AND vm.status = ?", models.MembershipActive).
		Order("v.created_at DESC").
		Scan(&vendors).Error
	return vendors, err
}

func (r *GormRepo) UpdateVendorStatus(ctx context.Context, id uint, status string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", id).
		Update("status", status).Error
}
