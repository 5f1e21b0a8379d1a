package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

type GuestListService struct {
	Repo *repo.GormRepo
}

func (s *GuestListService) Create(ctx context.Context, userID uint, listName string) (*models.GuestList, error) {
	if strings.TrimSpace(listName) == "" {
		return nil, fmt.Errorf("%w: list name is required", ErrValidation)
	}

	gl := models.GuestList{UserID: userID, ListName: listName}
	if err := s.Repo.CreateGuestList(ctx, &gl); err != nil {
		return nil, storeErr(err)
	}
	return &gl, nil
}

func (s *GuestListService) List(ctx context.Context, userID uint) ([]repo.GuestListSummary, error) {
	lists, err := s.Repo.ListGuestLists(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return lists, nil
}

func (s *GuestListService) AddEntry(ctx context.Context, userID, listID uint, guestName, phone string) (*models.GuestListEntry, error) {
	if strings.TrimSpace(guestName) == "" {
		return nil, fmt.Errorf("%w: guest name is required", ErrValidation)
	}

	gl, err := s.Repo.GetGuestList(ctx, listID)
	if err != nil {
		return nil, notFoundOr(err, "guest list")
	}
	if gl.UserID != userID {
		return nil, fmt.Errorf("%w: guest list belongs to another user", ErrForbidden)
	}

	entry := models.GuestListEntry{GuestListID: listID, GuestName: guestName, Phone: phone}
	if err := s.Repo.AddGuestListEntry(ctx, &entry); err != nil {
		return nil, storeErr(err)
	}
	return &entry, nil
}
