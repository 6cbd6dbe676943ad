package services

import (
	"fmt"

	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	Members           MemberService
	ShippingAddresses ShippingAddressService
	Orders            OrderService
	Dashboard         DashboardService
	Auth              AuthService
	Seeder            *Seeder
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos repositories.RepositoryManager, logger *logrus.Logger) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository manager cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &ServiceContainer{
		Members:           NewMemberService(repos, logger),
		ShippingAddresses: NewShippingAddressService(repos, logger),
		Orders:            NewOrderService(repos, logger),
		Dashboard:         NewDashboardService(repos),
		Auth:              NewAuthService(repos.Users(), logger),
		Seeder:            NewSeeder(repos, logger),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.Members == nil {
		return fmt.Errorf("member service is nil")
	}
	if sc.ShippingAddresses == nil {
		return fmt.Errorf("shipping address service is nil")
	}
	if sc.Orders == nil {
		return fmt.Errorf("order service is nil")
	}
	if sc.Dashboard == nil {
		return fmt.Errorf("dashboard service is nil")
	}
	if sc.Auth == nil {
		return fmt.Errorf("auth service is nil")
	}
	if sc.Seeder == nil {
		return fmt.Errorf("seeder is nil")
	}
	return nil
}
