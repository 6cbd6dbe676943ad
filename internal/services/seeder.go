package services

import (
	"context"
	_ "embed"
	"fmt"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the demo data loaded by the seed command
type Fixtures struct {
	Members []MemberFixture `yaml:"members"`
}

// MemberFixture is a member with the addresses registered for it
type MemberFixture struct {
	Name      string           `yaml:"name"`
	Email     string           `yaml:"email"`
	Phone     string           `yaml:"phone"`
	Addresses []AddressFixture `yaml:"addresses"`
}

// AddressFixture is a shipping address keyed by its label
type AddressFixture struct {
	Label         string `yaml:"label"`
	PostalCode    string `yaml:"postal_code"`
	Address1      string `yaml:"address1"`
	Address2      string `yaml:"address2"`
	RecipientName string `yaml:"recipient_name"`
	Phone         string `yaml:"phone"`
}

// SeedResult counts what a seeding run created and what already existed
type SeedResult struct {
	MembersCreated   int `json:"membersCreated"`
	MembersExisting  int `json:"membersExisting"`
	AddressesCreated int `json:"addressesCreated"`
}

// ParseFixtures decodes fixtures from YAML
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// DefaultFixtures returns the embedded demo data
func DefaultFixtures() *Fixtures {
	f, err := ParseFixtures(defaultFixtures)
	if err != nil {
		panic(err)
	}
	return f
}

// Seeder loads fixtures idempotently: members are matched by email, addresses by member and label
type Seeder struct {
	repos  repositories.RepositoryManager
	logger *logrus.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(repos repositories.RepositoryManager, logger *logrus.Logger) *Seeder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Seeder{repos: repos, logger: logger}
}

// Seed loads f in a single transaction; nil loads the embedded demo data
func (s *Seeder) Seed(ctx context.Context, f *Fixtures) (*SeedResult, error) {
	if f == nil {
		f = DefaultFixtures()
	}

	var result SeedResult
	err := s.repos.WithTransaction(ctx, func(ctx context.Context) error {
		result = SeedResult{}
		for _, mf := range f.Members {
			member, created, err := s.seedMember(ctx, mf)
			if err != nil {
				return err
			}
			if created {
				result.MembersCreated++
			} else {
				result.MembersExisting++
			}

			for _, af := range mf.Addresses {
				created, err := s.seedAddress(ctx, member, af)
				if err != nil {
					return err
				}
				if created {
					result.AddressesCreated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"members_created":   result.MembersCreated,
		"members_existing":  result.MembersExisting,
		"addresses_created": result.AddressesCreated,
	}).Info("Seeding complete")
	return &result, nil
}

func (s *Seeder) seedMember(ctx context.Context, mf MemberFixture) (*models.Member, bool, error) {
	defaults := models.NewMember(mf.Name, mf.Email, mf.Phone)
	defaults.Normalize()

	member, created, err := s.repos.Members().GetOrCreateByEmail(ctx, defaults)
	if err != nil {
		return nil, false, fmt.Errorf("failed to seed member %s: %w", mf.Email, err)
	}

	entry := s.logger.WithFields(logrus.Fields{"member": member.Name})
	if created {
		entry.Info("Created member")
	} else {
		entry.Info("Member already exists")
	}
	return member, created, nil
}

func (s *Seeder) seedAddress(ctx context.Context, member *models.Member, af AddressFixture) (bool, error) {
	defaults := models.NewShippingAddress(member.ID, af.Label)
	defaults.PostalCode = af.PostalCode
	defaults.Address1 = af.Address1
	defaults.Address2 = af.Address2
	defaults.RecipientName = af.RecipientName
	defaults.Phone = af.Phone
	defaults.Normalize()

	_, created, err := s.repos.ShippingAddresses().GetOrCreate(ctx, defaults)
	if err != nil {
		return false, fmt.Errorf("failed to seed address %s for %s: %w", af.Label, member.Email, err)
	}
	if created {
		s.logger.WithFields(logrus.Fields{"member": member.Name, "label": af.Label}).Info("Added address")
	}
	return created, nil
}
