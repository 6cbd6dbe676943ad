package sqlstore

import (
	"context"
	"database/sql"

	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Store implements repositories.RepositoryManager on a database/sql pool
type Store struct {
	db        *sql.DB
	logger    *logrus.Logger
	members   *MemberRepository
	addresses *ShippingAddressRepository
	orders    *OrderRepository
	users     *UserRepository
}

var _ repositories.RepositoryManager = (*Store)(nil)

// NewStore creates the repositories for db; driver selects the SQL dialect
func NewStore(db *sql.DB, driver string, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}

	return &Store{
		db:        db,
		logger:    logger,
		members:   NewMemberRepository(db, driver, logger),
		addresses: NewShippingAddressRepository(db, driver, logger),
		orders:    NewOrderRepository(db, driver, logger),
		users:     NewUserRepository(db, driver, logger),
	}
}

// WithTransaction runs fn in a transaction; calls already inside one reuse it
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.WithError(err).Error("Failed to begin transaction")
		return repositories.TransactionError("begin", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(contextWithTx(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			s.logger.WithError(rollbackErr).Error("Failed to rollback transaction after error")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.WithError(err).Error("Failed to commit transaction")
		return repositories.TransactionError("commit", err)
	}
	return nil
}

// Members returns the member repository
func (s *Store) Members() repositories.MemberRepository {
	return s.members
}

// ShippingAddresses returns the shipping address repository
func (s *Store) ShippingAddresses() repositories.ShippingAddressRepository {
	return s.addresses
}

// Orders returns the order repository
func (s *Store) Orders() repositories.OrderRepository {
	return s.orders
}

// Users returns the user repository
func (s *Store) Users() repositories.UserRepository {
	return s.users
}
