package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kotenkov/event_market/internal/models"
)

func TestPlaceOrderFreezesPricesAndClearsCart(t *testing.T) {
	r := newTestRepo(t)
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

	order, err := orders.Place(ctx, buyer.ID, v.ID, "card")
	require.NoError(t, err)
	require.Equal(t, 25.0, order.TotalAmount)
	require.Equal(t, models.OrderConfirmed, order.Status)
	require.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.Len(t, order.OrderNumber, len("ORD-")+12)

	// Cart rows for that vendor are gone.
	require.EqualValues(t, 0, countRows(t, r, &models.CartItem{}, "user_id = ?", buyer.ID))

	// A later price change must not touch the stored order lines.
	require.NoError(t, r.DB.Model(&models.Product{}).
		Where("id = ?", cake.ID).
		Update("price", 99).Error)

	var items []models.OrderItem
	require.NoError(t, r.DB.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	require.Equal(t, 10.0, items[0].UnitPrice)
	require.Equal(t, 20.0, items[0].TotalPrice)
	require.Equal(t, 5.0, items[1].UnitPrice)
}

func TestPlaceOrderOnlyConsumesVendorsCart(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	caterer := seedVendor(t, r, "caterer")
	florist := seedVendor(t, r, "florist")
	cake := seedProduct(t, r, caterer.ID, "cake", 10)
	roses := seedProduct(t, r, florist.ID, "roses", 20)
	buyer := seedBuyer(t, r, "alice")

	_, err := carts.AddItem(ctx, buyer.ID, cake.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, buyer.ID, roses.ID, 1)
	require.NoError(t, err)

	_, err = orders.Place(ctx, buyer.ID, caterer.ID, "cash")
	require.NoError(t, err)

	// The florist's row survives.
	var remaining models.CartItem
	require.NoError(t, r.DB.Where("user_id = ?", buyer.ID).First(&remaining).Error)
	require.Equal(t, roses.ID, remaining.ProductID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	r := newTestRepo(t)
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")
	buyer := seedBuyer(t, r, "alice")

	_, err := orders.Place(ctx, buyer.ID, v.ID, "card")
	require.ErrorIs(t, err, ErrConflict)
	require.EqualValues(t, 0, countRows(t, r, &models.Order{}, "user_id = ?", buyer.ID))
}

func TestPlaceOrderValidation(t *testing.T) {
	r := newTestRepo(t)
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	buyer := seedBuyer(t, r, "alice")

	_, err := orders.Place(ctx, buyer.ID, 0, "card")
	require.ErrorIs(t, err, ErrValidation)

	_, err = orders.Place(ctx, buyer.ID, 1, "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderHistories(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	v := seedVendor(t, r, "caterer")
	cake := seedProduct(t, r, v.ID, "cake", 10)
	buyer := seedBuyer(t, r, "alice")

	_, err := carts.AddItem(ctx, buyer.ID, cake.ID, 2)
	require.NoError(t, err)
	placed, err := orders.Place(ctx, buyer.ID, v.ID, "card")
	require.NoError(t, err)

	mine, err := orders.ForUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, placed.OrderNumber, mine[0].OrderNumber)
	require.Equal(t, "caterer", mine[0].VendorName)
	require.Len(t, mine[0].Items, 1)
	require.Equal(t, "cake", mine[0].Items[0].ProductName)

	sales, err := orders.ForVendor(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, "alice", sales[0].UserName)
	require.Len(t, sales[0].Items, 1)
}
