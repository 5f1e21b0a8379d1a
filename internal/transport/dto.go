package transport

import "time"

type SignupRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	LoginID  string `json:"user_id"`
	Password string `json:"password"`
	Category string `json:"category,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	LoginID  string `json:"user_id"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	VendorID uint   `json:"vendor_id,omitempty"`
}

type AddMembershipRequest struct {
	VendorID           uint   `json:"vendor_id"`
	MembershipDuration string `json:"membershipDuration"`
}

type AddMembershipResponse struct {
	MembershipNo string    `json:"membership_no"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

type UpdateMembershipRequest struct {
	MembershipID       uint   `json:"membership_id"`
	Action             string `json:"action"` // extend | cancel
	ExtensionDuration  string `json:"extensionDuration,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

type AddToCartRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartRequest struct {
	CartItemID uint `json:"cartItemId"`
	Quantity   int  `json:"quantity"`
}

type DeleteCartRequest struct {
	CartItemID uint `json:"cartItemId"`
}

type PlaceOrderRequest struct {
	VendorID      uint   `json:"vendorId"`
	PaymentMethod string `json:"paymentMethod"`
}

type PlaceOrderResponse struct {
	OrderID     uint   `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

type AddProductRequest struct {
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

type DeleteProductRequest struct {
	ProductID uint `json:"productId"`
}

type UpdateProductStatusRequest struct {
	ProductID uint   `json:"productId"`
	Status    string `json:"status"`
}

type ToggleUserStatusRequest struct {
	UserID uint `json:"userId"`
	Active bool `json:"active"`
}

type ToggleVendorStatusRequest struct {
	VendorID uint   `json:"vendorId"`
	Status   string `json:"status"`
}

type CreateGuestListRequest struct {
	ListName string `json:"listName"`
}

type AddGuestEntryRequest struct {
	GuestName string `json:"guestName"`
	Phone     string `json:"phone,omitempty"`
}
