package models

import (
	"fmt"
	"time"
)

// ShippingAddress is a delivery destination registered for a member
type ShippingAddress struct {
	ID            int64     `json:"id" db:"id"`
	MemberID      int64     `json:"memberId" db:"member_id" form:"member" validate:"required,gt=0"`
	Label         string    `json:"label" db:"label" form:"label" validate:"required,max=100"`
	PostalCode    string    `json:"postalCode" db:"postal_code" form:"postal_code" validate:"required,max=8"`
	Address1      string    `json:"address1" db:"address1" form:"address1" validate:"required,max=255"`
	Address2      string    `json:"address2" db:"address2" form:"address2" validate:"required,max=255"`
	RecipientName string    `json:"recipientName" db:"recipient_name" form:"recipient_name" validate:"required,max=100"`
	Phone         string    `json:"phone,omitempty" db:"phone" form:"phone" validate:"max=20"`
	IsActive      bool      `json:"isActive" db:"is_active" form:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// MemberName is filled in by list queries
	MemberName string `json:"memberName,omitempty" db:"-"`
}

// NewShippingAddress creates an active address for a member
func NewShippingAddress(memberID int64, label string) *ShippingAddress {
	now := time.Now().UTC()
	return &ShippingAddress{
		MemberID:  memberID,
		Label:     label,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize trims input and formats postal code and phone number
func (a *ShippingAddress) Normalize() {
	a.Label = SanitizeString(a.Label)
	a.PostalCode = NormalizePostalCode(SanitizeString(a.PostalCode))
	a.Address1 = SanitizeString(a.Address1)
	a.Address2 = SanitizeString(a.Address2)
	a.RecipientName = SanitizeString(a.RecipientName)
	a.Phone = SanitizeString(a.Phone)
	if a.Phone != "" {
		a.Phone = NormalizePhone(a.Phone)
	}
}

// Validate validates the address data
func (a *ShippingAddress) Validate() error {
	return ValidateStruct(a)
}

// String renders the address the way select boxes show it
func (a *ShippingAddress) String() string {
	return fmt.Sprintf("%s (%s)", a.Label, a.RecipientName)
}
