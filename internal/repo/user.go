package repo

import (
	"context"

	"github.com/kotenkov/event_market/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByLoginAndRole(ctx context.Context, loginID, role string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND role = ?", loginID, role).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) LoginIDTaken(ctx context.Context, loginID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", loginID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *GormRepo) SetUserActive(ctx context.Context, id uint, active bool) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("active", active).Error
}
