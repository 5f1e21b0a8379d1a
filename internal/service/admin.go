package service

import (
	"context"
	"fmt"

	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

type AdminService struct {
	Repo *repo.GormRepo
}

// AdminReport aggregates the status breakdowns shown on the reports page.
type AdminReport struct {
	Memberships  []repo.StatusCount  `json:"memberships"`
	Vendors      []repo.StatusCount  `json:"vendors"`
	Users        []repo.RoleCount    `json:"users"`
	Orders       []repo.StatusCount  `json:"orders"`
	RecentOrders []repo.OrderSummary `json:"recent_orders"`
}

// VendorReport aggregates one vendor's own figures. Every query is scoped by
// vendor id; no other vendor's orders or products leak in.
type VendorReport struct {
	Orders       []repo.StatusCount  `json:"orders"`
	Products     []repo.StatusCount  `json:"products"`
	TopProducts  []repo.TopProduct   `json:"top_products"`
	RecentOrders []repo.OrderSummary `json:"recent_orders"`
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.ListUsersByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (s *AdminService) ToggleUserActive(ctx context.Context, userID uint, active bool) error {
	return storeErr(s.Repo.SetUserActive(ctx, userID, active))
}

func (s *AdminService) ListVendors(ctx context.Context) ([]repo.VendorWithMembership, error) {
	vendors, err := s.Repo.ListVendorsWithMembership(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return vendors, nil
}

func (s *AdminService) ToggleVendorStatus(ctx context.Context, vendorID uint, status string) error {
	if status != models.VendorActive && status != models.VendorInactive {
		return fmt.Errorf("%w: invalid vendor status %q", ErrValidation, status)
	}
	if _, err := s.Repo.GetVendor(ctx, vendorID); err != nil {
		return notFoundOr(err, "vendor")
	}
	return storeErr(s.Repo.UpdateVendorStatus(ctx, vendorID, status))
}

// ActiveVendors backs the add-membership vendor picker.
func (s *AdminService) ActiveVendors(ctx context.Context) ([]repo.VendorListing, error) {
	vendors, err := s.Repo.ListActiveVendors(ctx, "")
	if err != nil {
		return nil, storeErr(err)
	}
	return vendors, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*repo.AdminStats, error) {
	stats, err := s.Repo.AdminDashboard(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return stats, nil
}

func (s *AdminService) Report(ctx context.Context) (*AdminReport, error) {
	report := &AdminReport{}
	var err error

	if report.Memberships, err = s.Repo.MembershipStatusCounts(ctx); err != nil {
		return nil, storeErr(err)
	}
	if report.Vendors, err = s.Repo.VendorStatusCounts(ctx); err != nil {
		return nil, storeErr(err)
	}
	if report.Users, err = s.Repo.UserRoleCounts(ctx); err != nil {
		return nil, storeErr(err)
	}
	if report.Orders, err = s.Repo.OrderStatusCounts(ctx); err != nil {
		return nil, storeErr(err)
	}
	if report.RecentOrders, err = s.Repo.RecentOrders(ctx, 10); err != nil {
		return nil, storeErr(err)
	}
	return report, nil
}

func (s *AdminService) VendorReport(ctx context.Context, vendorID uint) (*VendorReport, error) {
	report := &VendorReport{}
	var err error

	if report.Orders, err = s.Repo.OrderStatusCountsByVendor(ctx, vendorID); err != nil {
		return nil, storeErr(err)
	}
	if report.Products, err = s.Repo.ProductStatusCountsByVendor(ctx, vendorID); err != nil {
		return nil, storeErr(err)
	}
	if report.TopProducts, err = s.Repo.TopProductsByVendor(ctx, vendorID, 5); err != nil {
		return nil, storeErr(err)
	}
	if report.RecentOrders, err = s.Repo.RecentOrdersByVendor(ctx, vendorID, 10); err != nil {
		return nil, storeErr(err)
	}
	return report, nil
}

func (s *AdminService) VendorDashboard(ctx context.Context, vendorID uint) (*repo.VendorStats, error) {
	stats, err := s.Repo.VendorDashboard(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return stats, nil
}

// BrowseVendors lists active vendors for users, optionally by category.
func (s *AdminService) BrowseVendors(ctx context.Context, category string) ([]repo.VendorListing, error) {
	vendors, err := s.Repo.ListActiveVendors(ctx, category)
	if err != nil {
		return nil, storeErr(err)
	}
	return vendors, nil
}
