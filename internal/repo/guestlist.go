package repo

import (
	"context"

	"github.com/kotenkov/event_market/internal/models"
)

type GuestListSummary struct {
	models.GuestList
	EntryCount int64 `json:"entry_count"`
}

func (r *GormRepo) CreateGuestList(ctx context.Context, gl *models.GuestList) error {
	return r.DB.WithContext(ctx).Create(gl).Error
}

func (r *GormRepo) GetGuestList(ctx context.Context, id uint) (*models.GuestList, error) {
	var gl models.GuestList
	if err := r.DB.WithContext(ctx).First(&gl, id).Error; err != nil {
		return nil, err
	}
	return &gl, nil
}

func (r *GormRepo) ListGuestLists(ctx context.Context, userID uint) ([]GuestListSummary, error) {
	var lists []GuestListSummary
	err := r.DB.WithContext(ctx).
		Table("guest_lists gl").
		Select("gl.*, COUNT(gle.id) AS entry_count").
		Joins("LEFT JOIN guest_list_entries gle ON gl.id = gle.guest_list_id").
		Where("gl.user_id = ?", userID).
		Group("gl.id").
		Order("gl.created_at DESC").
		Scan(&lists).Error
	return lists, err
}

func (r *GormRepo) AddGuestListEntry(ctx context.Context, e *models.GuestListEntry) error {
	return r.DB.WithContext(ctx).Create(e).Error
}
