package services

import (
	"context"

	"order-dashboard/internal/models"
)

// MemberService defines member back-office operations
type MemberService interface {
	ListMembers(ctx context.Context, filters models.SearchFilters) ([]*models.Member, error)
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	CreateMember(ctx context.Context, req *MemberRequest) (*models.Member, error)
	UpdateMember(ctx context.Context, id int64, req *MemberRequest) (*models.Member, error)
}

// ShippingAddressService defines shipping address back-office operations
type ShippingAddressService interface {
	ListAddresses(ctx context.Context, filters models.SearchFilters) ([]*models.ShippingAddress, error)
	GetAddress(ctx context.Context, id int64) (*models.ShippingAddress, error)
	CreateAddress(ctx context.Context, req *ShippingAddressRequest) (*models.ShippingAddress, error)
	UpdateAddress(ctx context.Context, id int64, req *ShippingAddressRequest) (*models.ShippingAddress, error)

	// MemberChoices lists the members an address may be registered for
	MemberChoices(ctx context.Context) ([]*models.Member, error)
}

// OrderService defines order operations
type OrderService interface {
	ListOrders(ctx context.Context, filters models.SearchFilters) ([]*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)

	// CreateOrder accepts only active members and active addresses belonging to that member
	CreateOrder(ctx context.Context, req *OrderRequest) (*models.Order, error)

	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)

	// Choices returns what the order form may offer
	Choices(ctx context.Context) (*OrderChoices, error)
}

// DashboardService builds the home page figures
type DashboardService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

// AuthService checks staff credentials and manages accounts
type AuthService interface {
	// Authenticate accepts a username or an email address as login
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
}

// MemberRequest carries member form or API input
type MemberRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`

	// IsActive is left untouched on update when nil; create defaults to active
	IsActive *bool `json:"isActive,omitempty" form:"-"`
}

// ShippingAddressRequest carries shipping address form or API input
type ShippingAddressRequest struct {
	MemberID      int64  `json:"memberId" form:"member"`
	Label         string `json:"label" form:"label"`
	PostalCode    string `json:"postalCode" form:"postal_code"`
	Address1      string `json:"address1" form:"address1"`
	Address2      string `json:"address2" form:"address2"`
	RecipientName string `json:"recipientName" form:"recipient_name"`
	Phone         string `json:"phone" form:"phone"`
	IsActive      *bool  `json:"isActive,omitempty" form:"-"`
}

// OrderRequest carries order form or API input
type OrderRequest struct {
	MemberID          int64              `json:"memberId" form:"member"`
	ShippingAddressID int64              `json:"shippingAddressId" form:"shipping_address"`
	Status            models.OrderStatus `json:"status" form:"status"`
	Memo              string             `json:"memo" form:"memo"`
}

// OrderStatusRequest carries a status change
type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" form:"status" binding:"required"`
}

// OrderChoices holds the selectable values of the order form
type OrderChoices struct {
	Members   []*models.Member          `json:"members"`
	Addresses []*models.ShippingAddress `json:"addresses"`
	Statuses  []models.OrderStatus      `json:"statuses"`
}
