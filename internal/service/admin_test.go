package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kotenkov/event_market/internal/models"
)

func TestAdminDashboardAndReport(t *testing.T) {
	r := newTestRepo(t)
	admin := &AdminService{Repo: r}
	memberships := &MembershipService{Repo: r}
	carts := &CartService{Repo: r}
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")
	cake := seedProduct(t, r, v.ID, "cake", 10)
	buyer := seedBuyer(t, r, "alice")

	_, err := memberships.Create(ctx, v.ID, "6_months", 1)
	require.NoError(t, err)

	_, err = carts.AddItem(ctx, buyer.ID, cake.ID, 2)
	require.NoError(t, err)
	_, err = orders.Place(ctx, buyer.ID, v.ID, "card")
	require.NoError(t, err)

	stats, err := admin.Dashboard(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Users)
	require.EqualValues(t, 1, stats.Vendors)
	require.EqualValues(t, 1, stats.ActiveMemberships)
	require.EqualValues(t, 1, stats.ConfirmedOrders)

	report, err := admin.Report(ctx)
	require.NoError(t, err)
	require.Len(t, report.Memberships, 1)
	require.Equal(t, models.MembershipActive, report.Memberships[0].Status)
	require.Len(t, report.Orders, 1)
	require.Equal(t, 20.0, report.Orders[0].Total)
	require.Len(t, report.RecentOrders, 1)
	require.Equal(t, "caterer", report.RecentOrders[0].VendorName)
}

func TestVendorDashboardRevenue(t *testing.T) {
	r := newTestRepo(t)
	admin := &AdminService{Repo: r}
	carts := &CartService{Repo: r}
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")
	cake := seedProduct(t, r, v.ID, "cake", 10)
	punch := seedProduct(t, r, v.ID, "punch", 5)
	buyer := seedBuyer(t, r, "alice")

	_, err := carts.AddItem(ctx, buyer.ID, cake.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, buyer.ID, punch.ID, 1)
	require.NoError(t, err)
	_, err = orders.Place(ctx, buyer.ID, v.ID, "card")
	require.NoError(t, err)

	stats, err := admin.VendorDashboard(ctx, v.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Products)
	require.Equal(t, 25.0, stats.Revenue)

	report, err := admin.VendorReport(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, report.TopProducts, 2)
	require.Equal(t, "cake", report.TopProducts[0].ProductName)
	require.Equal(t, 20.0, report.TopProducts[0].TotalSales)
}

func TestVendorReportScopedToVendor(t *testing.T) {
	r := newTestRepo(t)
	admin := &AdminService{Repo: r}
	carts := &CartService{Repo: r}
	orders := &OrderService{Repo: r}
	products := &ProductService{Repo: r}
	ctx := context.Background()

	caterer := seedVendor(t, r, "caterer")
	florist := seedVendor(t, r, "florist")
	cake := seedProduct(t, r, caterer.ID, "cake", 10)
	roses := seedProduct(t, r, florist.ID, "roses", 100)
	require.NoError(t, products.UpdateStatus(ctx, florist.ID, roses.ID, models.ProductUnavailable))
	buyer := seedBuyer(t, r, "alice")

	_, err := carts.AddItem(ctx, buyer.ID, cake.ID, 2)
	require.NoError(t, err)
	_, err = orders.Place(ctx, buyer.ID, caterer.ID, "card")
	require.NoError(t, err)

	// Another vendor's order must not show up in the first one's report.
	require.NoError(t, products.UpdateStatus(ctx, florist.ID, roses.ID, models.ProductAvailable))
	_, err = carts.AddItem(ctx, buyer.ID, roses.ID, 3)
	require.NoError(t, err)
	_, err = orders.Place(ctx, buyer.ID, florist.ID, "cash")
	require.NoError(t, err)

	report, err := admin.VendorReport(ctx, caterer.ID)
	require.NoError(t, err)

	require.Len(t, report.Orders, 1)
	require.Equal(t, models.OrderConfirmed, report.Orders[0].Status)
	require.EqualValues(t, 1, report.Orders[0].Count)
	require.Equal(t, 20.0, report.Orders[0].Total)

	require.Len(t, report.Products, 1)
	require.Equal(t, models.ProductAvailable, report.Products[0].Status)
	require.EqualValues(t, 1, report.Products[0].Count)

	require.Len(t, report.TopProducts, 1)
	require.Equal(t, "cake", report.TopProducts[0].ProductName)

	require.Len(t, report.RecentOrders, 1)
	require.Equal(t, caterer.ID, report.RecentOrders[0].VendorID)
	require.Equal(t, "alice", report.RecentOrders[0].UserName)

	other, err := admin.VendorReport(ctx, florist.ID)
	require.NoError(t, err)
	require.Len(t, other.Orders, 1)
	require.Equal(t, 300.0, other.Orders[0].Total)
}

func TestToggleVendorStatus(t *testing.T) {
	r := newTestRepo(t)
	admin := &AdminService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")

	err := admin.ToggleVendorStatus(ctx, v.ID, "Suspended")
	require.ErrorIs(t, err, ErrValidation)

	err = admin.ToggleVendorStatus(ctx, 9999, models.VendorInactive)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, admin.ToggleVendorStatus(ctx, v.ID, models.VendorInactive))

	active, err := admin.ActiveVendors(ctx)
	require.NoError(t, err)
	require.Empty(t, active)

	require.NoError(t, admin.ToggleVendorStatus(ctx, v.ID, models.VendorActive))
	active, err = admin.ActiveVendors(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestBrowseVendorsByCategory(t *testing.T) {
	r := newTestRepo(t)
	admin := &AdminService{Repo: r}
	ctx := context.Background()

	caterer := seedVendor(t, r, "caterer")
	seedProduct(t, r, caterer.ID, "cake", 10)
	florist := seedVendor(t, r, "florist")
	require.NoError(t, r.DB.Model(&models.Vendor{}).
		Where("id = ?", florist.ID).
		Update("category", "Florist").Error)

	all, err := admin.BrowseVendors(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	catering, err := admin.BrowseVendors(ctx, "Catering")
	require.NoError(t, err)
	require.Len(t, catering, 1)
	require.Equal(t, "caterer", catering[0].VendorName)
	require.EqualValues(t, 1, catering[0].ProductCount)
}
