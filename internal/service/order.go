package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kotenkov/event_market/internal/events"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

const orderTopic = "order_events"

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// OrderWithItems is an order with its lines resolved, for history views.
type OrderWithItems struct {
	repo.OrderSummary
	Items []repo.OrderItemRow `json:"items"`
}

// newOrderNumber is collision-resistant: a raw timestamp would collide for
// two orders in the same millisecond. Uniqueness is still enforced by the
// order_number column.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return "ORD-" + suffix
}

// Place converts the user's cart for one vendor into an order. The order
// insert, item inserts and cart deletes commit or roll back together.
func (s *OrderService) Place(ctx context.Context, userID, vendorID uint, paymentMethod string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID, "vendor_id", vendorID)

	if vendorID == 0 {
		return nil, fmt.Errorf("%w: vendor required", ErrValidation)
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method required", ErrValidation)
	}

	var placed *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		rows, err := tx.CartRowsForVendor(ctx, userID, vendorID)
		if err != nil {
			return storeErr(err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrConflict)
		}

		var total float64
		for _, row := range rows {
			total += row.Price * float64(row.Quantity)
		}

		order := models.Order{
			OrderNumber:   newOrderNumber(),
			UserID:        userID,
			VendorID:      vendorID,
			TotalAmount:   total,
			PaymentMethod: paymentMethod,
			Status:        models.OrderConfirmed,
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return storeErr(err)
		}

		items := make([]models.OrderItem, len(rows))
		cartIDs := make([]uint, len(rows))
		for i, row := range rows {
			items[i] = models.OrderItem{
				OrderID:    order.ID,
				ProductID:  row.ProductID,
				Quantity:   row.Quantity,
				UnitPrice:  row.Price,
				TotalPrice: row.Price * float64(row.Quantity),
			}
			cartIDs[i] = row.CartItemID
		}
		if err := tx.CreateOrderItems(ctx, items); err != nil {
			return storeErr(err)
		}
		if err := tx.DeleteCartItems(ctx, cartIDs); err != nil {
			return storeErr(err)
		}

		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":         "order_placed",
		"order_number": placed.OrderNumber,
		"user_id":      userID,
		"vendor_id":    vendorID,
		"total_amount": placed.TotalAmount,
	})
	l.Info("order placed", "order_number", placed.OrderNumber, "total", placed.TotalAmount)
	return placed, nil
}

// ForUser returns the user's orders newest first, each with its items. Items
// for all orders are fetched in a single IN query.
func (s *OrderService) ForUser(ctx context.Context, userID uint) ([]OrderWithItems, error) {
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.attachItems(ctx, orders)
}

// ForVendor returns the vendor's orders with buyer identity and items.
func (s *OrderService) ForVendor(ctx context.Context, vendorID uint) ([]OrderWithItems, error) {
	orders, err := s.Repo.ListOrdersByVendor(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.attachItems(ctx, orders)
}

func (s *OrderService) attachItems(ctx context.Context, orders []repo.OrderSummary) ([]OrderWithItems, error) {
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := s.Repo.OrderItemsForOrders(ctx, ids)
	if err != nil {
		return nil, storeErr(err)
	}
	byOrder := make(map[uint][]repo.OrderItemRow, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	result := make([]OrderWithItems, len(orders))
	for i, o := range orders {
		result[i] = OrderWithItems{OrderSummary: o, Items: byOrder[o.ID]}
	}
	return result, nil
}

func (s *OrderService) publish(ctx context.Context, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, orderTopic, fmt.Sprint(event["order_number"]), event); err != nil {
		logging.FromContext(ctx).Warn("order event publish failed", "error", err)
	}
}
