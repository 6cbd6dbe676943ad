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

const memberColumns = `id, name, email, phone, is_active, created_at, updated_at`

// MemberRepository implements repositories.MemberRepository
type MemberRepository struct {
	*BaseRepository[models.Member]
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *sql.DB, driver string, logger *logrus.Logger) *MemberRepository {
	return &MemberRepository{
		BaseRepository: NewBaseRepository[models.Member](db, driver, "member", logger),
	}
}

func scanMember(s scanner) (*models.Member, error) {
	m := &models.Member{}
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new member
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	if err := member.Validate(); err != nil {
		return repositories.ValidationError("member", member.ID, err)
	}

	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	id, err := r.insertReturningID(ctx, `
		INSERT INTO members (name, email, phone, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		member.Name, member.Email, member.Phone, member.IsActive, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		return err
	}

	member.ID = id
	return nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}
	return r.queryOne(ctx, "get_by_id", id, scanMember,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
}

// GetByEmail retrieves a member by email, ignoring case
func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	m, err := r.queryOne(ctx, "get_by_email", 0, scanMember,
		`SELECT `+memberColumns+` FROM members WHERE LOWER(email) = LOWER(?) ORDER BY id LIMIT 1`,
		strings.TrimSpace(email))
	if repositories.IsNotFound(err) {
		return nil, repositories.NotFoundByError("member", "email", email)
	}
	return m, err
}

// Update updates an existing member
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	if err := r.validateID(member.ID); err != nil {
		return err
	}
	if err := member.Validate(); err != nil {
		return repositories.ValidationError("member", member.ID, err)
	}

	member.UpdatedAt = time.Now().UTC()

	result, err := r.executeExec(ctx, "update", `
		UPDATE members
		SET name = ?, email = ?, phone = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		member.Name, member.Email, member.Phone, member.IsActive, member.UpdatedAt, member.ID,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", member.ID)
}

// List retrieves members ordered by name
func (r *MemberRepository) List(ctx context.Context, filters models.SearchFilters) ([]*models.Member, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := likePattern(q)
		where = append(where, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filters.Active != nil {
		where = append(where, "is_active = ?")
		args = append(args, *filters.Active)
	}

	query := `SELECT ` + memberColumns + ` FROM members`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit, offset := page(filters)
	query += " ORDER BY name, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryList(ctx, "list", scanMember, query, args...)
}

// Count counts members
func (r *MemberRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	if activeOnly {
		return r.count(ctx, `SELECT COUNT(*) FROM members WHERE is_active = ?`, true)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM members`)
}

// GetOrCreateByEmail returns the member registered under defaults.Email, creating it when absent
func (r *MemberRepository) GetOrCreateByEmail(ctx context.Context, defaults *models.Member) (*models.Member, bool, error) {
	existing, err := r.GetByEmail(ctx, defaults.Email)
	if err == nil {
		return existing, false, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, false, err
	}

	if err := r.Create(ctx, defaults); err != nil {
		if repositories.IsDuplicate(err) {
			existing, err := r.GetByEmail(ctx, defaults.Email)
			return existing, false, err
		}
		return nil, false, err
	}
	return defaults, true, nil
}
