package repositories

import (
	"context"
	"time"

	"order-dashboard/internal/models"
)

// MemberRepository defines member persistence
type MemberRepository interface {
	// Create inserts the member and sets its ID
	Create(ctx context.Context, member *models.Member) error

	GetByID(ctx context.Context, id int64) (*models.Member, error)

	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (*models.Member, error)

	Update(ctx context.Context, member *models.Member) error

	// List returns members ordered by name
	List(ctx context.Context, filters models.SearchFilters) ([]*models.Member, error)

	// Count counts members, only active ones when activeOnly is set
	Count(ctx context.Context, activeOnly bool) (int, error)

	// GetOrCreateByEmail returns the member with defaults' email, creating it from defaults if missing
	GetOrCreateByEmail(ctx context.Context, defaults *models.Member) (*models.Member, bool, error)
}

// ShippingAddressRepository defines shipping address persistence
type ShippingAddressRepository interface {
	Create(ctx context.Context, address *models.ShippingAddress) error
	GetByID(ctx context.Context, id int64) (*models.ShippingAddress, error)
	Update(ctx context.Context, address *models.ShippingAddress) error

	// List returns addresses ordered by label with the member name filled in
	List(ctx context.Context, filters models.SearchFilters) ([]*models.ShippingAddress, error)

	// ListActive returns active addresses, optionally for one member (memberID > 0)
	ListActive(ctx context.Context, memberID int64) ([]*models.ShippingAddress, error)

	Count(ctx context.Context, activeOnly bool) (int, error)

	// GetOrCreate looks up by member and label, creating from defaults if missing
	GetOrCreate(ctx context.Context, defaults *models.ShippingAddress) (*models.ShippingAddress, bool, error)
}

// OrderRepository defines order persistence
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error

	// GetByID returns the order with member and address names filled in
	GetByID(ctx context.Context, id int64) (*models.Order, error)

	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error

	// List returns orders newest first
	List(ctx context.Context, filters models.SearchFilters) ([]*models.Order, error)

	// Recent returns the n newest orders
	Recent(ctx context.Context, n int) ([]*models.Order, error)

	Count(ctx context.Context) (int, error)
}

// UserRepository defines staff account persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByLogin matches the username, or the email case-insensitively
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// RepositoryManager provides access to all repositories and transaction management
type RepositoryManager interface {
	TransactionManager

	Members() MemberRepository
	ShippingAddresses() ShippingAddressRepository
	Orders() OrderRepository
	Users() UserRepository
}
