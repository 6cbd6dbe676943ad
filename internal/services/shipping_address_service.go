package services

import (
	"context"
	"fmt"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

// shippingAddressService implements the ShippingAddressService interface
type shippingAddressService struct {
	repos  repositories.RepositoryManager
	logger *logrus.Logger
}

// NewShippingAddressService creates a new shipping address service instance
func NewShippingAddressService(repos repositories.RepositoryManager, logger *logrus.Logger) ShippingAddressService {
	if logger == nil {
		logger = logrus.New()
	}
	return &shippingAddressService{repos: repos, logger: logger}
}

// ListAddresses lists addresses ordered by label
func (s *shippingAddressService) ListAddresses(ctx context.Context, filters models.SearchFilters) ([]*models.ShippingAddress, error) {
	addresses, err := s.repos.ShippingAddresses().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress retrieves an address by ID
func (s *shippingAddressService) GetAddress(ctx context.Context, id int64) (*models.ShippingAddress, error) {
	address, err := s.repos.ShippingAddresses().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping address: %w", err)
	}
	return address, nil
}

// CreateAddress registers a new address for a member
func (s *shippingAddressService) CreateAddress(ctx context.Context, req *ShippingAddressRequest) (*models.ShippingAddress, error) {
	if req == nil {
		return nil, fmt.Errorf("create shipping address request cannot be nil")
	}

	address := models.NewShippingAddress(req.MemberID, req.Label)
	apply(address, req)
	address.IsActive = boolValue(req.IsActive, true)
	if err := s.save(ctx, address); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"address_id": address.ID,
		"member_id":  address.MemberID,
	}).Info("Shipping address created")
	return address, nil
}

// UpdateAddress replaces an address's editable fields
func (s *shippingAddressService) UpdateAddress(ctx context.Context, id int64, req *ShippingAddressRequest) (*models.ShippingAddress, error) {
	if req == nil {
		return nil, fmt.Errorf("update shipping address request cannot be nil")
	}

	address, err := s.GetAddress(ctx, id)
	if err != nil {
		return nil, err
	}

	address.MemberID = req.MemberID
	address.Label = req.Label
	apply(address, req)
	address.IsActive = boolValue(req.IsActive, address.IsActive)
	if err := s.save(ctx, address); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"address_id": address.ID}).Info("Shipping address updated")
	return address, nil
}

// MemberChoices lists every member by name
func (s *shippingAddressService) MemberChoices(ctx context.Context) ([]*models.Member, error) {
	members, err := s.repos.Members().List(ctx, models.SearchFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func apply(address *models.ShippingAddress, req *ShippingAddressRequest) {
	address.PostalCode = req.PostalCode
	address.Address1 = req.Address1
	address.Address2 = req.Address2
	address.RecipientName = req.RecipientName
	address.Phone = req.Phone
}

func (s *shippingAddressService) save(ctx context.Context, address *models.ShippingAddress) error {
	address.Normalize()
	if err := address.Validate(); err != nil {
		return err
	}

	member, err := s.repos.Members().GetByID(ctx, address.MemberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return fieldError("member", msgInvalidChoice, address.MemberID)
		}
		return fmt.Errorf("failed to get member: %w", err)
	}

	if address.ID == 0 {
		err = s.repos.ShippingAddresses().Create(ctx, address)
	} else {
		err = s.repos.ShippingAddresses().Update(ctx, address)
	}
	if err != nil {
		return fmt.Errorf("failed to save shipping address: %w", err)
	}

	address.MemberName = member.Name
	return nil
}
