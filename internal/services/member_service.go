package services

import (
	"context"
	"fmt"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

// memberService implements the MemberService interface
type memberService struct {
	repos  repositories.RepositoryManager
	logger *logrus.Logger
}

// NewMemberService creates a new member service instance
func NewMemberService(repos repositories.RepositoryManager, logger *logrus.Logger) MemberService {
	if logger == nil {
		logger = logrus.New()
	}
	return &memberService{repos: repos, logger: logger}
}

// ListMembers lists members ordered by name
func (s *memberService) ListMembers(ctx context.Context, filters models.SearchFilters) ([]*models.Member, error) {
	members, err := s.repos.Members().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetMember retrieves a member by ID
func (s *memberService) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repos.Members().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// CreateMember registers a new member
func (s *memberService) CreateMember(ctx context.Context, req *MemberRequest) (*models.Member, error) {
	if req == nil {
		return nil, fmt.Errorf("create member request cannot be nil")
	}

	member := models.NewMember(req.Name, req.Email, req.Phone)
	member.IsActive = boolValue(req.IsActive, true)
	if err := s.save(ctx, member); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"member_id": member.ID}).Info("Member created")
	return member, nil
}

// UpdateMember replaces a member's editable fields
func (s *memberService) UpdateMember(ctx context.Context, id int64, req *MemberRequest) (*models.Member, error) {
	if req == nil {
		return nil, fmt.Errorf("update member request cannot be nil")
	}

	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	member.Name = req.Name
	member.Email = req.Email
	member.Phone = req.Phone
	member.IsActive = boolValue(req.IsActive, member.IsActive)
	if err := s.save(ctx, member); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"member_id": member.ID}).Info("Member updated")
	return member, nil
}

// save normalizes, validates and stores member, creating it when it has no ID
func (s *memberService) save(ctx context.Context, member *models.Member) error {
	member.Normalize()
	if err := member.Validate(); err != nil {
		return err
	}

	existing, err := s.repos.Members().GetByEmail(ctx, member.Email)
	switch {
	case err == nil && existing.ID != member.ID:
		return fieldError("email", msgEmailTaken, member.Email)
	case err != nil && !repositories.IsNotFound(err):
		return fmt.Errorf("failed to check member email: %w", err)
	}

	if member.ID == 0 {
		err = s.repos.Members().Create(ctx, member)
	} else {
		err = s.repos.Members().Update(ctx, member)
	}
	if repositories.IsDuplicate(err) {
		return fieldError("email", msgEmailTaken, member.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}
