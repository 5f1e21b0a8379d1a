package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kotenkov/event_market/internal/config"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, config.Migrate(db), "failed to migrate tables")

	return repo.New(db)
}

func seedVendor(t *testing.T, r *repo.GormRepo, name string) *models.Vendor {
	t.Helper()

	user := models.User{
		LoginID:      name + "_login",
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleVendor,
		Active:       true,
	}
	require.NoError(t, r.DB.Create(&user).Error)

	vendor := models.Vendor{
		UserID:     user.ID,
		VendorName: name,
		Category:   "Catering",
		Email:      user.Email,
		Phone:      "1234567890",
		Status:     models.VendorActive,
	}
	require.NoError(t, r.DB.Create(&vendor).Error)
	return &vendor
}

func seedBuyer(t *testing.T, r *repo.GormRepo, name string) *models.User {
	t.Helper()

	user := models.User{
		LoginID:      name + "_login",
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		Active:       true,
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, r *repo.GormRepo, vendorID uint, name string, price float64) *models.Product {
	t.Helper()

	p := models.Product{
		VendorID:    vendorID,
		ProductName: name,
		Price:       price,
		Status:      models.ProductAvailable,
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func countRows(t *testing.T, r *repo.GormRepo, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, r.DB.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
