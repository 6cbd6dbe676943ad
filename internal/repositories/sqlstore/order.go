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

const orderSelect = `
	SELECT o.id, o.member_id, o.shipping_address_id, o.status, o.memo,
		o.created_at, o.updated_at, m.name, s.label, s.recipient_name
	FROM orders o
	JOIN members m ON m.id = o.member_id
	JOIN shipping_addresses s ON s.id = o.shipping_address_id`

// OrderRepository implements repositories.OrderRepository
type OrderRepository struct {
	*BaseRepository[models.Order]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, driver string, logger *logrus.Logger) *OrderRepository {
	return &OrderRepository{
		BaseRepository: NewBaseRepository[models.Order](db, driver, "order", logger),
	}
}

func scanOrder(s scanner) (*models.Order, error) {
	o := &models.Order{}
	err := s.Scan(
		&o.ID, &o.MemberID, &o.ShippingAddressID, &o.Status, &o.Memo,
		&o.CreatedAt, &o.UpdatedAt, &o.MemberName, &o.ShippingAddressLabel, &o.RecipientName,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts a new order
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return repositories.ValidationError("order", order.ID, err)
	}

	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	id, err := r.insertReturningID(ctx, `
		INSERT INTO orders (member_id, shipping_address_id, status, memo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		order.MemberID, order.ShippingAddressID, string(order.Status), order.Memo, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	order.ID = id
	return nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}
	return r.queryOne(ctx, "get_by_id", id, scanOrder, orderSelect+` WHERE o.id = ?`, id)
}

// UpdateStatus moves an order to status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if err := r.validateID(id); err != nil {
		return err
	}
	if !status.Valid() {
		return repositories.ValidationError("order", id,
			&models.ValidationError{Field: "status", Message: "正しく選択してください。", Value: string(status)})
	}

	result, err := r.executeExec(ctx, "update_status",
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update_status", id)
}

// List retrieves orders newest first
func (r *OrderRepository) List(ctx context.Context, filters models.SearchFilters) ([]*models.Order, error) {
	var (
		where []string
		args  []any
	)
	if filters.Status != "" {
		where = append(where, "o.status = ?")
		args = append(args, filters.Status)
	}
	if filters.MemberID > 0 {
		where = append(where, "o.member_id = ?")
		args = append(args, filters.MemberID)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := likePattern(q)
		where = append(where, `(LOWER(m.name) LIKE ? ESCAPE '\' OR LOWER(o.memo) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := orderSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit, offset := page(filters)
	query += " ORDER BY o.created_at DESC, o.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryList(ctx, "list", scanOrder, query, args...)
}

// Recent retrieves the n newest orders
func (r *OrderRepository) Recent(ctx context.Context, n int) ([]*models.Order, error) {
	if n <= 0 {
		return []*models.Order{}, nil
	}
	return r.List(ctx, models.SearchFilters{Limit: n})
}

// Count counts all orders
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders`)
}
