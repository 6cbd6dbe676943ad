package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

const addressSelect = `
	SELECT s.id, s.member_id, s.label, s.postal_code, s.address1, s.address2,
		s.recipient_name, s.phone, s.is_active, s.created_at, s.updated_at, m.name
	FROM shipping_addresses s
	JOIN members m ON m.id = s.member_id`

// ShippingAddressRepository implements repositories.ShippingAddressRepository
type ShippingAddressRepository struct {
	*BaseRepository[models.ShippingAddress]
}

// NewShippingAddressRepository creates a new shipping address repository
func NewShippingAddressRepository(db *sql.DB, driver string, logger *logrus.Logger) *ShippingAddressRepository {
	return &ShippingAddressRepository{
		BaseRepository: NewBaseRepository[models.ShippingAddress](db, driver, "shipping_address", logger),
	}
}

func scanAddress(s scanner) (*models.ShippingAddress, error) {
	a := &models.ShippingAddress{}
	err := s.Scan(
		&a.ID, &a.MemberID, &a.Label, &a.PostalCode, &a.Address1, &a.Address2,
		&a.RecipientName, &a.Phone, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.MemberName,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new shipping address
func (r *ShippingAddressRepository) Create(ctx context.Context, address *models.ShippingAddress) error {
	if err := address.Validate(); err != nil {
		return repositories.ValidationError("shipping_address", address.ID, err)
	}

	now := time.Now().UTC()
	if address.CreatedAt.IsZero() {
		address.CreatedAt = now
	}
	address.UpdatedAt = now

	id, err := r.insertReturningID(ctx, `
		INSERT INTO shipping_addresses (
			member_id, label, postal_code, address1, address2,
			recipient_name, phone, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		address.MemberID, address.Label, address.PostalCode, address.Address1, address.Address2,
		address.RecipientName, address.Phone, address.IsActive, address.CreatedAt, address.UpdatedAt,
	)
	if err != nil {
		return err
	}

	address.ID = id
	return nil
}

// GetByID retrieves a shipping address by ID
func (r *ShippingAddressRepository) GetByID(ctx context.Context, id int64) (*models.ShippingAddress, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}
	return r.queryOne(ctx, "get_by_id", id, scanAddress, addressSelect+` WHERE s.id = ?`, id)
}

// Update updates an existing shipping address
func (r *ShippingAddressRepository) Update(ctx context.Context, address *models.ShippingAddress) error {
	if err := r.validateID(address.ID); err != nil {
		return err
	}
	if err := address.Validate(); err != nil {
		return repositories.ValidationError("shipping_address", address.ID, err)
	}

	address.UpdatedAt = time.Now().UTC()

	result, err := r.executeExec(ctx, "update", `
		UPDATE shipping_addresses
		SET member_id = ?, label = ?, postal_code = ?, address1 = ?, address2 = ?,
			recipient_name = ?, phone = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		address.MemberID, address.Label, address.PostalCode, address.Address1, address.Address2,
		address.RecipientName, address.Phone, address.IsActive, address.UpdatedAt, address.ID,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", address.ID)
}

// List retrieves shipping addresses ordered by label
func (r *ShippingAddressRepository) List(ctx context.Context, filters models.SearchFilters) ([]*models.ShippingAddress, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := likePattern(q)
		where = append(where, `(LOWER(s.label) LIKE ? ESCAPE '\' OR LOWER(s.recipient_name) LIKE ? ESCAPE '\' OR LOWER(m.name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filters.MemberID > 0 {
		where = append(where, "s.member_id = ?")
		args = append(args, filters.MemberID)
	}
	if filters.Active != nil {
		where = append(where, "s.is_active = ?")
		args = append(args, *filters.Active)
	}

	query := addressSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit, offset := page(filters)
	query += " ORDER BY s.label, s.id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryList(ctx, "list", scanAddress, query, args...)
}

// ListActive retrieves active addresses, restricted to one member when memberID is positive
func (r *ShippingAddressRepository) ListActive(ctx context.Context, memberID int64) ([]*models.ShippingAddress, error) {
	active := true
	return r.List(ctx, models.SearchFilters{Active: &active, MemberID: memberID})
}

// Count counts shipping addresses
func (r *ShippingAddressRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	if activeOnly {
		return r.count(ctx, `SELECT COUNT(*) FROM shipping_addresses WHERE is_active = ?`, true)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM shipping_addresses`)
}

// GetOrCreate returns the member's address with defaults.Label, creating it when absent
func (r *ShippingAddressRepository) GetOrCreate(ctx context.Context, defaults *models.ShippingAddress) (*models.ShippingAddress, bool, error) {
	existing, err := r.queryOne(ctx, "get_by_label", 0, scanAddress,
		addressSelect+` WHERE s.member_id = ? AND s.label = ? ORDER BY s.id LIMIT 1`,
		defaults.MemberID, defaults.Label)
	if err == nil {
		return existing, false, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, false, err
	}

	if err := r.Create(ctx, defaults); err != nil {
		return nil, false, err
	}
	return defaults, true, nil
}
