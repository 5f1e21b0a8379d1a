package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kotenkov/event_market/internal/models"
)

type MembershipDetail struct {
	models.Membership
	VendorName string `json:"vendor_name"`
}

// LastMembershipNo returns the highest membership number sharing prefix, or
// "" when none exists. Suffixes are zero-padded to three digits but grow past
// that, so longer suffixes must rank above lexically larger short ones.
func (r *GormRepo) LastMembershipNo(ctx context.Context, prefix string) (string, error) {
	var no string
	err := r.DB.WithContext(ctx).
		Model(&models.Membership{}).
		Select("membership_no").
		Where("membership_no LIKE ?", prefix+"%").
		Order("LENGTH(membership_no) DESC, membership_no DESC").
		Limit(1).
		Scan(&no).Error
	if err != nil {
		return "", err
	}
	return no, nil
}

func (r *GormRepo) HasActiveMembership(ctx context.Context, vendorID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Membership{}).
		Where("vendor_id = ? AND status = ?", vendorID, models.MembershipActive).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) GetMembership(ctx context.Context, id uint) (*models.Membership, error) {
	var m models.Membership
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMembershipForUpdate locks the row for the remainder of the transaction.
func (r *GormRepo) GetMembershipForUpdate(ctx context.Context, id uint) (*models.Membership, error) {
	var m models.Membership
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepo) MembershipByNumber(ctx context.Context, membershipNo string) (*MembershipDetail, error) {
	var d MembershipDetail
	err := r.DB.WithContext(ctx).
		Table("vendor_memberships vm").
		Select("vm.*, v.vendor_name").
		Joins("JOIN vendors v ON vm.vendor_id = v.id").
		Where("vm.membership_no = ?", membershipNo).
		Take(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) CreateMembership(ctx context.Context, m *models.Membership) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) UpdateMembership(ctx context.Context, id uint, fields map[string]any) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) AppendMembershipUpdate(ctx context.Context, u *models.MembershipUpdate) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) ListMembershipUpdates(ctx context.Context, membershipID uint) ([]models.MembershipUpdate, error) {
	var updates []models.MembershipUpdate
	err := r.DB.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("id ASC").
		Find(&updates).Error
	return updates, err
}

// ExpireLapsedMemberships flips Active memberships whose end date has passed
// to Expired. Expiry never touches Cancelled rows.
func (r *GormRepo) ExpireLapsedMemberships(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Membership{}).
		Where("status = ? AND end_date < ?", models.MembershipActive, now).
		Update("status", models.MembershipExpired)
	return res.RowsAffected, res.Error
}

// IsDuplicate reports whether err is a unique-constraint violation, either as
// gorm's translated sentinel or as the driver's raw message.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
