package models

import (
	"time"
)

const (
	RoleAdmin  = "Admin"
	RoleUser   = "User"
	RoleVendor = "Vendor"
)

const (
	VendorActive   = "Active"
	VendorInactive = "Inactive"
)

const (
	ProductAvailable   = "Available"
	ProductUnavailable = "Unavailable"
)

const (
	MembershipActive    = "Active"
	MembershipExpired   = "Expired"
	MembershipCancelled = "Cancelled"
)

const (
	ActionCreated   = "Created"
	ActionExtended  = "Extended"
	ActionCancelled = "Cancelled"
)

const (
	OrderPending   = "Pending"
	OrderConfirmed = "Confirmed"
	OrderCancelled = "Cancelled"
)

// VendorCategories are the categories a vendor can sign up under.
var VendorCategories = []string{"Catering", "Florist", "Decoration", "Lighting"}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	LoginID      string    `gorm:"column:user_id;unique;not null" json:"user_id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Email        string    `gorm:"unique;not null"           json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"not null"                  json:"role"`
	Active       bool      `gorm:"not null;default:true"     json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Vendor struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null"      json:"user_id"`
	VendorName string    `gorm:"not null"                  json:"vendor_name"`
	Category   string    `gorm:"not null"                  json:"category"`
	Email      string    `gorm:"not null"                  json:"email"`
	Phone      string    `gorm:"not null"                  json:"phone"`
	Status     string    `gorm:"not null;default:Active"   json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	VendorID    uint      `gorm:"index;not null"            json:"vendor_id"`
	ProductName string    `gorm:"not null"                  json:"product_name"`
	Price       float64   `gorm:"not null"                  json:"price"`
	Description string    `json:"description"`
	Status      string    `gorm:"not null;default:Available" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership is a vendor's paid standing for a bounded period. A vendor holds
// at most one Active membership at a time.
type Membership struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	VendorID           uint       `gorm:"index;not null"            json:"vendor_id"`
	MembershipNo       string     `gorm:"uniqueIndex;not null"      json:"membership_no"`
	StartDate          time.Time  `gorm:"not null"                  json:"start_date"`
	EndDate            time.Time  `gorm:"not null"                  json:"end_date"`
	MembershipDuration string     `gorm:"not null"                  json:"membership_duration"`
	Status             string     `gorm:"not null;default:Active"   json:"status"`
	CancellationDate   *time.Time `json:"cancellation_date,omitempty"`
	CreatedBy          uint       `gorm:"not null"                  json:"created_by"`
	UpdatedBy          *uint      `json:"updated_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (Membership) TableName() string { return "vendor_memberships" }

// MembershipUpdate is an append-only audit record of a membership mutation.
// Rows are never edited or deleted.
type MembershipUpdate struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	MembershipID   uint       `gorm:"index;not null"            json:"membership_id"`
	ActionType     string     `gorm:"not null"                  json:"action_type"`
	DurationMonths int        `json:"duration_months"`
	OldEndDate     *time.Time `json:"old_end_date,omitempty"`
	NewEndDate     *time.Time `json:"new_end_date,omitempty"`
	Remarks        string     `json:"remarks"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                   json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity>0"                  json:"quantity"`
}

type Order struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderNumber   string    `gorm:"uniqueIndex;not null"         json:"order_number"`
	UserID        uint      `gorm:"index;not null"               json:"user_id"`
	VendorID      uint      `gorm:"index;not null"               json:"vendor_id"`
	TotalAmount   float64   `gorm:"not null"                     json:"total_amount"`
	PaymentMethod string    `gorm:"not null"                     json:"payment_method"`
	Status        string    `gorm:"column:order_status;not null" json:"order_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderItem freezes the product price at purchase time. It never follows
// later Product price changes.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID    uint    `gorm:"index;not null"            json:"order_id"`
	ProductID  uint    `gorm:"not null"                  json:"product_id"`
	Quantity   uint    `gorm:"not null"                  json:"quantity"`
	UnitPrice  float64 `gorm:"not null"                  json:"unit_price"`
	TotalPrice float64 `gorm:"not null"                  json:"total_price"`
}

type GuestList struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID    uint      `gorm:"index;not null"            json:"user_id"`
	ListName  string    `gorm:"not null"                  json:"list_name"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestListEntry struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	GuestListID uint      `gorm:"index;not null"            json:"guest_list_id"`
	GuestName   string    `gorm:"not null"                  json:"guest_name"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string `gorm:"unique;not null"          json:"token"`
	UserID    uint   `gorm:"index;not null"           json:"user_id"`
	ExpiresAt int64  `gorm:"not null"                 json:"expires_at"`
	Revoked   bool   `gorm:"default:false"            json:"revoked"`
}
