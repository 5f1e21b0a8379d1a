package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kotenkov/event_market/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateMembershipNumbering(t *testing.T) {
	r := newTestRepo(t)
	day := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := &MembershipService{Repo: r, Now: fixedClock(day)}
	ctx := context.Background()

	v1 := seedVendor(t, r, "caterer_one")
	v2 := seedVendor(t, r, "caterer_two")

	m1, err := svc.Create(ctx, v1.ID, "6_months", 1)
	require.NoError(t, err)
	require.Equal(t, "MEM-20250115-001", m1.MembershipNo)
	require.Equal(t, models.MembershipActive, m1.Status)
	require.True(t, m1.EndDate.Equal(time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)))

	m2, err := svc.Create(ctx, v2.ID, "1_year", 1)
	require.NoError(t, err)
	require.Equal(t, "MEM-20250115-002", m2.MembershipNo)
	require.True(t, m2.EndDate.Equal(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)))
}

func TestCreateMembershipRetriesOnNumberCollision(t *testing.T) {
	r := newTestRepo(t)
	day := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := &MembershipService{Repo: r, Now: fixedClock(day)}
	ctx := context.Background()

	first := seedVendor(t, r, "caterer")
	second := seedVendor(t, r, "florist")

	m1, err := svc.Create(ctx, first.ID, "6_months", 1)
	require.NoError(t, err)
	require.Equal(t, "MEM-20250115-001", m1.MembershipNo)

	// Simulate a rival writer taking the computed number between the read
	// and the insert: the first insert attempt is forced onto the taken
	// number, trips the unique constraint and must retry with a fresh one.
	collided := false
	err = r.DB.Callback().Create().Before("gorm:create").Register("membership_number_collision", func(tx *gorm.DB) {
		m, ok := tx.Statement.Dest.(*models.Membership)
		if !ok || collided {
			return
		}
		collided = true
		m.MembershipNo = m1.MembershipNo
	})
	require.NoError(t, err)
	defer r.DB.Callback().Create().Remove("membership_number_collision")

	m2, err := svc.Create(ctx, second.ID, "6_months", 1)
	require.NoError(t, err)
	require.True(t, collided)
	require.Equal(t, "MEM-20250115-002", m2.MembershipNo)
	require.EqualValues(t, 1, countRows(t, r, &models.Membership{}, "vendor_id = ?", second.ID))
}

func TestMembershipNumberingBeyondThreeDigits(t *testing.T) {
	r := newTestRepo(t)
	day := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := &MembershipService{Repo: r, Now: fixedClock(day)}
	ctx := context.Background()

	// A day that already ran past sequence 999: the suffix grows to four
	// digits and must still be picked as the highest.
	for i, no := range []string{"MEM-20250115-998", "MEM-20250115-999"} {
		require.NoError(t, r.DB.Create(&models.Membership{
			VendorID:           uint(9000 + i),
			MembershipNo:       no,
			StartDate:          day,
			EndDate:            day.AddDate(0, 6, 0),
			MembershipDuration: "6_months",
			Status:             models.MembershipCancelled,
			CreatedBy:          1,
		}).Error)
	}

	v1 := seedVendor(t, r, "caterer")
	m1, err := svc.Create(ctx, v1.ID, "6_months", 1)
	require.NoError(t, err)
	require.Equal(t, "MEM-20250115-1000", m1.MembershipNo)

	v2 := seedVendor(t, r, "florist")
	m2, err := svc.Create(ctx, v2.ID, "6_months", 1)
	require.NoError(t, err)
	require.Equal(t, "MEM-20250115-1001", m2.MembershipNo)
}

func TestCreateMembershipRejectsSecondActive(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "florist")
	_, err := svc.Create(ctx, v.ID, "6_months", 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, v.ID, "1_year", 1)
	require.ErrorIs(t, err, ErrConflict)

	require.EqualValues(t, 1, countRows(t, r, &models.Membership{}, "vendor_id = ?", v.ID))
}

func TestCreateMembershipValidation(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "decorator")

	_, err := svc.Create(ctx, v.ID, "3_months", 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 9999, "6_months", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExtendCompoundsFromStoredEndDate(t *testing.T) {
	r := newTestRepo(t)
	day := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := &MembershipService{Repo: r, Now: fixedClock(day)}
	ctx := context.Background()

	v := seedVendor(t, r, "lighting")
	m, err := svc.Create(ctx, v.ID, "6_months", 1)
	require.NoError(t, err)

	extended, err := svc.Extend(ctx, m.ID, "1_year", 2)
	require.NoError(t, err)
	require.True(t, extended.EndDate.Equal(time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)))
	require.Equal(t, models.MembershipActive, extended.Status)
}

func TestExtendRevivesExpiredMembership(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")
	m, err := svc.Create(ctx, v.ID, "6_months", 1)
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(&models.Membership{}).
		Where("id = ?", m.ID).
		Update("status", models.MembershipExpired).Error)

	extended, err := svc.Extend(ctx, m.ID, "6_months", 2)
	require.NoError(t, err)
	require.Equal(t, models.MembershipActive, extended.Status)
}

func TestExtendCancelledMembershipRejected(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "florist")
	m, err := svc.Create(ctx, v.ID, "6_months", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, m.ID, "client request", 1))

	_, err = svc.Extend(ctx, m.ID, "6_months", 1)
	require.ErrorIs(t, err, ErrConflict)
}

func TestCancelMembership(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "decorator")
	m, err := svc.Create(ctx, v.ID, "2_years", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, m.ID, "out of business", 3))

	detail, err := svc.GetByNumber(ctx, m.MembershipNo)
	require.NoError(t, err)
	require.Equal(t, models.MembershipCancelled, detail.Status)
	require.NotNil(t, detail.CancellationDate)

	err = svc.Cancel(ctx, m.ID, "again", 3)
	require.ErrorIs(t, err, ErrConflict)

	updates, err := svc.History(ctx, m.ID)
	require.NoError(t, err)

	var cancelled int
	for _, u := range updates {
		if u.ActionType == models.ActionCancelled {
			cancelled++
			require.Equal(t, "out of business", u.Remarks)
		}
	}
	require.Equal(t, 1, cancelled, "a rejected second cancel must not leave an audit row")
}

func TestMembershipHistoryOrder(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")
	m, err := svc.Create(ctx, v.ID, "6_months", 1)
	require.NoError(t, err)
	_, err = svc.Extend(ctx, m.ID, "1_year", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, m.ID, "done", 1))

	updates, err := svc.History(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, updates, 3)
	require.Equal(t, models.ActionCreated, updates[0].ActionType)
	require.Equal(t, models.ActionExtended, updates[1].ActionType)
	require.Equal(t, models.ActionCancelled, updates[2].ActionType)
	require.Equal(t, 12, updates[1].DurationMonths)
	require.NotNil(t, updates[1].OldEndDate)
	require.NotNil(t, updates[1].NewEndDate)
}

func TestMembershipNotFound(t *testing.T) {
	r := newTestRepo(t)
	svc := &MembershipService{Repo: r}
	ctx := context.Background()

	_, err := svc.Extend(ctx, 42, "6_months", 1)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Cancel(ctx, 42, "nope", 1)
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.GetByNumber(ctx, "MEM-19700101-001")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.History(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExpireLapsedMemberships(t *testing.T) {
	r := newTestRepo(t)
	start := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := &MembershipService{Repo: r, Now: fixedClock(start)}
	ctx := context.Background()

	lapsed := seedVendor(t, r, "caterer")
	current := seedVendor(t, r, "florist")
	cancelled := seedVendor(t, r, "decorator")

	m1, err := svc.Create(ctx, lapsed.ID, "6_months", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, current.ID, "2_years", 1)
	require.NoError(t, err)
	m3, err := svc.Create(ctx, cancelled.ID, "6_months", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, m3.ID, "gone", 1))

	// A year later only the 6-month membership has lapsed.
	svc.Now = fixedClock(start.AddDate(1, 0, 0))
	n, err := svc.ExpireLapsed(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	var got models.Membership
	require.NoError(t, r.DB.First(&got, m1.ID).Error)
	require.Equal(t, models.MembershipExpired, got.Status)

	got = models.Membership{}
	require.NoError(t, r.DB.First(&got, m3.ID).Error)
	require.Equal(t, models.MembershipCancelled, got.Status, "expiry must not touch cancelled rows")
}
