package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kotenkov/event_market/internal/models"
)

func TestIsDuplicate(t *testing.T) {
	require.True(t, IsDuplicate(gorm.ErrDuplicatedKey))
	require.True(t, IsDuplicate(fmt.Errorf("creating membership: %w", gorm.ErrDuplicatedKey)))

	// Raw driver messages, sqlite and postgres shapes.
	require.True(t, IsDuplicate(errors.New("UNIQUE constraint failed: vendor_memberships.membership_no")))
	require.True(t, IsDuplicate(errors.New(`duplicate key value violates unique constraint "idx_vendor_memberships_membership_no"`)))

	require.False(t, IsDuplicate(nil))
	require.False(t, IsDuplicate(gorm.ErrRecordNotFound))
	require.False(t, IsDuplicate(errors.New("connection refused")))
}

func TestLastMembershipNoOrdersNumerically(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.Membership{}))
	r := New(db)
	ctx := context.Background()

	day := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, no := range []string{"MEM-20250115-002", "MEM-20250115-999", "MEM-20250115-1000"} {
		require.NoError(t, db.Create(&models.Membership{
			VendorID:           uint(i + 1),
			MembershipNo:       no,
			StartDate:          day,
			EndDate:            day.AddDate(0, 6, 0),
			MembershipDuration: "6_months",
			Status:             models.MembershipCancelled,
			CreatedBy:          1,
		}).Error)
	}

	// Lexically "999" beats "1000"; numerically it must not.
	last, err := r.LastMembershipNo(ctx, "MEM-20250115-")
	require.NoError(t, err)
	require.Equal(t, "MEM-20250115-1000", last)

	last, err = r.LastMembershipNo(ctx, "MEM-20250116-")
	require.NoError(t, err)
	require.Empty(t, last)
}
