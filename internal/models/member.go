package models

import (
	"strings"
	"time"
)

// Member is a customer of the shop
type Member struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" form:"name" validate:"required,max=100"`
	Email     string    `json:"email" db:"email" form:"email" validate:"required,email,max=254"`
	Phone     string    `json:"phone,omitempty" db:"phone" form:"phone" validate:"max=20"`
	IsActive  bool      `json:"isActive" db:"is_active" form:"is_active"`
	CreatedAt time.Time `json:"joinedAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewMember creates an active member with timestamps set
func NewMember(name, email, phone string) *Member {
	now := time.Now().UTC()
	return &Member{
		Name:      name,
		Email:     email,
		Phone:     phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize trims input and formats the phone number
func (m *Member) Normalize() {
	m.Name = SanitizeString(m.Name)
	m.Email = SanitizeString(m.Email)
	m.Phone = SanitizeString(m.Phone)
	if m.Phone != "" {
		m.Phone = NormalizePhone(m.Phone)
	}
	// the domain part of an address is case-insensitive
	if at := strings.LastIndexByte(m.Email, '@'); at >= 0 {
		m.Email = m.Email[:at] + strings.ToLower(m.Email[at:])
	}
}

// Validate validates the member data
func (m *Member) Validate() error {
	return ValidateStruct(m)
}

// String returns the display name
func (m *Member) String() string {
	return m.Name
}
