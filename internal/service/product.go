package service

import (
	"context"
	"fmt"

	"github.com/kotenkov/event_market/internal/events"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
	"github.com/kotenkov/event_market/internal/search"
)

const productTopic = "product_events"

type ProductService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Search *search.Client
}

// Add creates a product owned by the calling vendor and indexes it.
func (s *ProductService) Add(ctx context.Context, vendorID uint, name string, price float64, description string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.add", "vendor_id", vendorID)

	if name == "" {
		return nil, fmt.Errorf("%w: product name required", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be a positive number", ErrValidation)
	}

	p := models.Product{
		VendorID:    vendorID,
		ProductName: name,
		Price:       price,
		Description: description,
		Status:      models.ProductAvailable,
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, storeErr(err)
	}

	s.index(ctx, &p)
	s.publish(ctx, map[string]any{"type": "product_created", "product_id": p.ID, "vendor_id": vendorID, "name": p.ProductName})
	l.Info("product added", "product_id", p.ID)
	return &p, nil
}

// Delete removes a product; only the owning vendor may do it.
func (s *ProductService) Delete(ctx context.Context, vendorID, productID uint) error {
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return notFoundOr(err, "product")
	}
	if p.VendorID != vendorID {
		return fmt.Errorf("%w: product belongs to another vendor", ErrForbidden)
	}

	if err := s.Repo.DeleteProduct(ctx, productID); err != nil {
		return storeErr(err)
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, productID); err != nil {
			logging.FromContext(ctx).Warn("search deindex failed", "product_id", productID, "error", err)
		}
	}
	s.publish(ctx, map[string]any{"type": "product_deleted", "product_id": productID, "vendor_id": vendorID})
	return nil
}

// UpdateStatus flips a product between Available and Unavailable.
func (s *ProductService) UpdateStatus(ctx context.Context, vendorID, productID uint, status string) error {
	if status != models.ProductAvailable && status != models.ProductUnavailable {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return notFoundOr(err, "product")
	}
	if p.VendorID != vendorID {
		return fmt.Errorf("%w: product belongs to another vendor", ErrForbidden)
	}

	if err := s.Repo.UpdateProductStatus(ctx, productID, status); err != nil {
		return storeErr(err)
	}

	p.Status = status
	s.index(ctx, p)
	s.publish(ctx, map[string]any{"type": "product_status_updated", "product_id": productID, "status": status})
	return nil
}

func (s *ProductService) ListForVendor(ctx context.Context, vendorID uint) ([]models.Product, error) {
	products, err := s.Repo.ListProductsByVendor(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return products, nil
}

// ListAvailable returns the purchasable products of an active vendor.
func (s *ProductService) ListAvailable(ctx context.Context, vendorID uint) ([]models.Product, error) {
	if _, err := s.Repo.GetActiveVendor(ctx, vendorID); err != nil {
		return nil, notFoundOr(err, "vendor")
	}
	products, err := s.Repo.ListAvailableProducts(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return products, nil
}

// Find queries the search index; falls back with Unavailable when no search
// backend is configured.
func (s *ProductService) Find(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	if s.Search == nil {
		return 0, nil, fmt.Errorf("%w: search backend not configured", ErrUnavailable)
	}
	return s.Search.Search(ctx, query, from, size)
}

func (s *ProductService) index(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search index failed", "product_id", p.ID, "error", err)
	}
}

func (s *ProductService) publish(ctx context.Context, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, productTopic, fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(ctx).Warn("product event publish failed", "error", err)
	}
}
