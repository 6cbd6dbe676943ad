package services

import (
	"context"
	"fmt"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"
)

type dashboardService struct {
	repos repositories.RepositoryManager
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(repos repositories.RepositoryManager) DashboardService {
	return &dashboardService{repos: repos}
}

// Summary counts active members, active addresses and orders, and lists the newest orders
func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var (
		summary models.DashboardSummary
		err     error
	)

	if summary.ActiveMembers, err = s.repos.Members().Count(ctx, true); err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if summary.ActiveAddresses, err = s.repos.ShippingAddresses().Count(ctx, true); err != nil {
		return nil, fmt.Errorf("failed to count shipping addresses: %w", err)
	}
	if summary.Orders, err = s.repos.Orders().Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if summary.RecentOrders, err = s.repos.Orders().Recent(ctx, models.RecentOrdersLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}

	return &summary, nil
}
