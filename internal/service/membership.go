package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kotenkov/event_market/internal/events"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

// membershipDurations maps a duration category to its calendar-month count.
var membershipDurations = map[string]int{
	"6_months": 6,
	"1_year":   12,
	"2_years":  24,
}

const membershipTopic = "membership_events"

type MembershipService struct {
	Repo   *repo.GormRepo
	Events events.Publisher

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *MembershipService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// nextMembershipNo derives MEM-<YYYYMMDD>-<seq> from the highest number
// already allocated for the day. The read-then-insert race is closed by the
// unique constraint on membership_no plus the retry loop in Create.
func (s *MembershipService) nextMembershipNo(ctx context.Context, tx *repo.GormRepo) (string, error) {
	day := s.now().Format("20060102")
	prefix := fmt.Sprintf("MEM-%s-", day)

	last, err := tx.LastMembershipNo(ctx, prefix)
	if err != nil {
		return "", storeErr(err)
	}

	seq := 1
	if last != "" {
		raw := last[strings.LastIndex(last, "-")+1:]
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", fmt.Errorf("malformed membership number %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// Create opens a membership for an active vendor without one. The number
// allocation and the two inserts run in one transaction, retried on a
// duplicate number.
func (s *MembershipService) Create(ctx context.Context, vendorID uint, durationCategory string, actorID uint) (*models.Membership, error) {
	l := logging.FromContext(ctx).With("svc", "membership.create", "vendor_id", vendorID)

	months, ok := membershipDurations[durationCategory]
	if !ok {
		return nil, fmt.Errorf("%w: invalid duration %q", ErrValidation, durationCategory)
	}

	vendor, err := s.Repo.GetActiveVendor(ctx, vendorID)
	if err != nil {
		return nil, notFoundOr(err, "vendor")
	}

	const maxAttempts = 3
	var created *models.Membership
	for attempt := 1; ; attempt++ {
		err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
			active, err := tx.HasActiveMembership(ctx, vendorID)
			if err != nil {
				return storeErr(err)
			}
			if active {
				return fmt.Errorf("%w: vendor already has an active membership", ErrConflict)
			}

			no, err := s.nextMembershipNo(ctx, tx)
			if err != nil {
				return err
			}

			start := s.now()
			end := start.AddDate(0, months, 0)
			m := models.Membership{
				VendorID:           vendorID,
				MembershipNo:       no,
				StartDate:          start,
				EndDate:            end,
				MembershipDuration: durationCategory,
				Status:             models.MembershipActive,
				CreatedBy:          actorID,
			}
			if err := tx.CreateMembership(ctx, &m); err != nil {
				return storeErr(err)
			}

			endCopy := end
			audit := models.MembershipUpdate{
				MembershipID:   m.ID,
				ActionType:     models.ActionCreated,
				DurationMonths: months,
				NewEndDate:     &endCopy,
			}
			if err := tx.AppendMembershipUpdate(ctx, &audit); err != nil {
				return storeErr(err)
			}

			created = &m
			return nil
		})
		if err == nil {
			break
		}
		if repo.IsDuplicate(err) && attempt < maxAttempts {
			l.Warn("membership number collision, retrying", "attempt", attempt)
			continue
		}
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":          "membership_created",
		"membership_no": created.MembershipNo,
		"vendor_id":     vendor.ID,
		"end_date":      created.EndDate,
	})
	l.Info("membership created", "membership_no", created.MembershipNo)
	return created, nil
}

// Extend pushes the end date out from the stored end date, preserving unused
// remaining time, and revives an Expired membership. A Cancelled membership
// cannot be extended.
func (s *MembershipService) Extend(ctx context.Context, membershipID uint, durationCategory string, actorID uint) (*models.Membership, error) {
	l := logging.FromContext(ctx).With("svc", "membership.extend", "membership_id", membershipID)

	months, ok := membershipDurations[durationCategory]
	if !ok {
		return nil, fmt.Errorf("%w: invalid extension duration %q", ErrValidation, durationCategory)
	}

	var extended *models.Membership
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		m, err := tx.GetMembershipForUpdate(ctx, membershipID)
		if err != nil {
			return notFoundOr(err, "membership")
		}
		if m.Status == models.MembershipCancelled {
			return fmt.Errorf("%w: membership is cancelled", ErrConflict)
		}

		oldEnd := m.EndDate
		newEnd := oldEnd.AddDate(0, months, 0)

		if err := tx.UpdateMembership(ctx, m.ID, map[string]any{
			"end_date":   newEnd,
			"status":     models.MembershipActive,
			"updated_by": actorID,
		}); err != nil {
			return storeErr(err)
		}

		audit := models.MembershipUpdate{
			MembershipID:   m.ID,
			ActionType:     models.ActionExtended,
			DurationMonths: months,
			OldEndDate:     &oldEnd,
			NewEndDate:     &newEnd,
		}
		if err := tx.AppendMembershipUpdate(ctx, &audit); err != nil {
			return storeErr(err)
		}

		m.EndDate = newEnd
		m.Status = models.MembershipActive
		m.UpdatedBy = &actorID
		extended = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":          "membership_extended",
		"membership_no": extended.MembershipNo,
		"end_date":      extended.EndDate,
	})
	l.Info("membership extended", "membership_no", extended.MembershipNo, "new_end", extended.EndDate)
	return extended, nil
}

// Cancel is terminal. Cancelling an already-cancelled membership is rejected
// so the audit trail never records two consecutive cancellations.
func (s *MembershipService) Cancel(ctx context.Context, membershipID uint, reason string, actorID uint) error {
	l := logging.FromContext(ctx).With("svc", "membership.cancel", "membership_id", membershipID)

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		m, err := tx.GetMembershipForUpdate(ctx, membershipID)
		if err != nil {
			return notFoundOr(err, "membership")
		}
		if m.Status == models.MembershipCancelled {
			return fmt.Errorf("%w: membership already cancelled", ErrConflict)
		}

		when := s.now()
		if err := tx.UpdateMembership(ctx, m.ID, map[string]any{
			"status":            models.MembershipCancelled,
			"cancellation_date": when,
			"updated_by":        actorID,
		}); err != nil {
			return storeErr(err)
		}

		audit := models.MembershipUpdate{
			MembershipID: m.ID,
			ActionType:   models.ActionCancelled,
			Remarks:      reason,
		}
		return storeErr(tx.AppendMembershipUpdate(ctx, &audit))
	})
	if err != nil {
		return err
	}

	s.publish(ctx, map[string]any{
		"type":          "membership_cancelled",
		"membership_id": membershipID,
		"reason":        reason,
	})
	l.Info("membership cancelled")
	return nil
}

func (s *MembershipService) GetByNumber(ctx context.Context, membershipNo string) (*repo.MembershipDetail, error) {
	d, err := s.Repo.MembershipByNumber(ctx, membershipNo)
	if err != nil {
		return nil, notFoundOr(err, "membership")
	}
	return d, nil
}

func (s *MembershipService) History(ctx context.Context, membershipID uint) ([]models.MembershipUpdate, error) {
	if _, err := s.Repo.GetMembership(ctx, membershipID); err != nil {
		return nil, notFoundOr(err, "membership")
	}
	updates, err := s.Repo.ListMembershipUpdates(ctx, membershipID)
	if err != nil {
		return nil, storeErr(err)
	}
	return updates, nil
}

// ExpireLapsed sweeps Active memberships whose end date has passed. Intended
// to run periodically from the server process.
func (s *MembershipService) ExpireLapsed(ctx context.Context) (int64, error) {
	n, err := s.Repo.ExpireLapsedMemberships(ctx, s.now())
	if err != nil {
		return 0, storeErr(err)
	}
	if n > 0 {
		logging.FromContext(ctx).Info("memberships expired", "count", n)
	}
	return n, nil
}

func (s *MembershipService) publish(ctx context.Context, event map[string]any) {
	if s.Events == nil {
		return
	}
	key := fmt.Sprint(event["membership_no"], event["membership_id"])
	if err := s.Events.Publish(ctx, membershipTopic, key, event); err != nil {
		logging.FromContext(ctx).Warn("membership event publish failed", "error", err)
	}
}
