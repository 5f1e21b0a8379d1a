package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/kotenkov/event_market/internal/auth"
	"github.com/kotenkov/event_market/internal/models"
)

type Deps struct {
	Tokens      *auth.TokenService
	Auth        *AuthHandler
	Memberships *MembershipHandler
	Carts       *CartHandler
	Orders      *OrderHandler
	Products    *ProductHandler
	Users       *UserHandler
	GuestLists  *GuestListHandler
	Admin       *AdminHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/signup", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.Logout)

	admin := e.Group("/admin", d.Tokens.RequireRole(models.RoleAdmin))

	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/reports", d.Admin.Report)
	admin.GET("/users", d.Admin.ListUsers)
	admin.PATCH("/users/status", d.Admin.ToggleUserStatus)
	admin.GET("/vendors", d.Admin.ListVendors)
	admin.PATCH("/vendors/status", d.Admin.ToggleVendorStatus)
	admin.GET("/api/vendors", d.Admin.ActiveVendors)
	admin.POST("/memberships", d.Memberships.Add)
	admin.PATCH("/memberships", d.Memberships.Update)
	admin.GET("/memberships/:membershipNo", d.Memberships.Get)
	admin.GET("/memberships/:membershipId/history", d.Memberships.History)

	user := e.Group("/user", d.Tokens.RequireRole(models.RoleUser))

	user.GET("/vendors", d.Users.BrowseVendors)
	user.GET("/vendors/:vendorId/products", d.Users.VendorProducts)
	user.GET("/search", d.Users.SearchProducts)
	user.GET("/cart", d.Carts.View)
	user.POST("/cart", d.Carts.Add)
	user.PATCH("/cart", d.Carts.Update)
	user.DELETE("/cart", d.Carts.Delete)
	user.POST("/orders", d.Orders.Place)
	user.GET("/orders", d.Orders.ListMine)
	user.GET("/guest-lists", d.GuestLists.List)
	user.POST("/guest-lists", d.GuestLists.Create)
	user.POST("/guest-lists/:listId/entries", d.GuestLists.AddEntry)

	vendor := e.Group("/vendor", d.Tokens.RequireRole(models.RoleVendor))

	vendor.GET("/dashboard", d.Admin.VendorDashboard)
	vendor.GET("/reports", d.Admin.VendorReport)
	vendor.GET("/items", d.Products.ListMine)
	vendor.POST("/items", d.Products.Add)
	vendor.DELETE("/items", d.Products.Delete)
	vendor.PATCH("/items/status", d.Products.UpdateStatus)
	vendor.GET("/transactions", d.Orders.Transactions)
}
