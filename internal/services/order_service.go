package services

import (
	"context"
	"fmt"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

// orderService implements the OrderService interface
type orderService struct {
	repos  repositories.RepositoryManager
	logger *logrus.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(repos repositories.RepositoryManager, logger *logrus.Logger) OrderService {
	if logger == nil {
		logger = logrus.New()
	}
	return &orderService{repos: repos, logger: logger}
}

// ListOrders lists orders newest first
func (s *orderService) ListOrders(ctx context.Context, filters models.SearchFilters) ([]*models.Order, error) {
	if filters.Status != "" && !models.OrderStatus(filters.Status).Valid() {
		return nil, fieldError("status", msgInvalidChoice, filters.Status)
	}

	orders, err := s.repos.Orders().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves an order by ID
func (s *orderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repos.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// CreateOrder places an order for an active member and one of their active addresses
func (s *orderService) CreateOrder(ctx context.Context, req *OrderRequest) (*models.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("create order request cannot be nil")
	}

	order := models.NewOrder(req.MemberID, req.ShippingAddressID)
	order.Status = req.Status
	order.Memo = req.Memo
	order.Normalize()
	if err := order.Validate(); err != nil {
		return nil, err
	}

	err := s.repos.WithTransaction(ctx, func(ctx context.Context) error {
		member, err := s.repos.Members().GetByID(ctx, order.MemberID)
		if err != nil && !repositories.IsNotFound(err) {
			return fmt.Errorf("failed to get member: %w", err)
		}
		if member == nil || !member.IsActive {
			return fieldError("member", msgInvalidChoice, order.MemberID)
		}

		address, err := s.repos.ShippingAddresses().GetByID(ctx, order.ShippingAddressID)
		if err != nil && !repositories.IsNotFound(err) {
			return fmt.Errorf("failed to get shipping address: %w", err)
		}
		if address == nil || !address.IsActive {
			return fieldError("shipping_address", msgInvalidChoice, order.ShippingAddressID)
		}
		if address.MemberID != member.ID {
			return fieldError("shipping_address", msgForeignAddr, order.ShippingAddressID)
		}

		if err := s.repos.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		order.MemberName = member.Name
		order.ShippingAddressLabel = address.Label
		order.RecipientName = address.RecipientName
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"member_id": order.MemberID,
	}).Info("Order created")
	return order, nil
}

// UpdateOrderStatus moves an order to another status
func (s *orderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fieldError("status", msgInvalidChoice, string(status))
	}

	if err := s.repos.Orders().UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"status":   status,
	}).Info("Order status updated")
	return s.GetOrder(ctx, id)
}

// Choices lists active members, active addresses and statuses
func (s *orderService) Choices(ctx context.Context) (*OrderChoices, error) {
	active := true
	members, err := s.repos.Members().List(ctx, models.SearchFilters{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	addresses, err := s.repos.ShippingAddresses().ListActive(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping addresses: %w", err)
	}

	return &OrderChoices{
		Members:   members,
		Addresses: addresses,
		Statuses:  models.OrderStatuses(),
	}, nil
}
