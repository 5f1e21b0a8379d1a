package service

import (
	"context"
	"fmt"

	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// CartLine is one priced cart entry in a vendor group.
type CartLine struct {
	CartItemID  uint    `json:"cart_item_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    uint    `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type VendorCart struct {
	VendorID   uint       `json:"vendor_id"`
	VendorName string     `json:"vendor_name"`
	Items      []CartLine `json:"items"`
	Subtotal   float64    `json:"vendor_total"`
}

type CartView struct {
	Vendors    []VendorCart `json:"vendors"`
	GrandTotal float64      `json:"grand_total"`
}

// AddItem puts quantity of the product in the user's cart. An existing row
// for the same product gets its quantity replaced, not accumulated.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if _, err := s.Repo.GetAvailableProduct(ctx, productID); err != nil {
		return nil, notFoundOr(err, "product")
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  uint(quantity),
	}
	if err := s.Repo.SetCartItem(ctx, &item); err != nil {
		return nil, storeErr(err)
	}

	l.Info("cart item set", "quantity", item.Quantity)
	return &item, nil
}

// UpdateQuantity changes the quantity of a cart row the caller owns.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	item, err := s.Repo.GetCartItem(ctx, cartItemID)
	if err != nil {
		return notFoundOr(err, "cart item")
	}
	if item.UserID != userID {
		return fmt.Errorf("%w: cart item belongs to another user", ErrForbidden)
	}

	return storeErr(s.Repo.UpdateCartQuantity(ctx, cartItemID, uint(quantity)))
}

// RemoveItem deletes a cart row the caller owns.
func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID uint) error {
	item, err := s.Repo.GetCartItem(ctx, cartItemID)
	if err != nil {
		return notFoundOr(err, "cart item")
	}
	if item.UserID != userID {
		return fmt.Errorf("%w: cart item belongs to another user", ErrForbidden)
	}

	return storeErr(s.Repo.DeleteCartItem(ctx, cartItemID))
}

// View groups the user's cart by vendor, ordered by vendor name, with line
// totals, vendor subtotals and a grand total.
func (s *CartService) View(ctx context.Context, userID uint) (*CartView, error) {
	rows, err := s.Repo.CartRows(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	view := &CartView{}
	for _, row := range rows {
		lineTotal := row.Price * float64(row.Quantity)
		line := CartLine{
			CartItemID:  row.CartItemID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			UnitPrice:   row.Price,
			Quantity:    row.Quantity,
			LineTotal:   lineTotal,
		}

		// Rows arrive ordered by vendor name, so a vendor change starts
		// a new group.
		n := len(view.Vendors)
		if n == 0 || view.Vendors[n-1].VendorID != row.VendorID {
			view.Vendors = append(view.Vendors, VendorCart{
				VendorID:   row.VendorID,
				VendorName: row.VendorName,
			})
			n++
		}
		group := &view.Vendors[n-1]
		group.Items = append(group.Items, line)
		group.Subtotal += lineTotal
		view.GrandTotal += lineTotal
	}
	return view, nil
}
