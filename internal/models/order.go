package models

import (
	"fmt"
	"time"
)

// OrderStatus is the processing state of an order
type OrderStatus string

const (
	StatusReceived   OrderStatus = "受付"
	StatusInProgress OrderStatus = "対応中"
	StatusCompleted  OrderStatus = "完了"
	StatusCanceled   OrderStatus = "キャンセル"
)

// OrderStatuses lists every status in display order
func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusReceived, StatusInProgress, StatusCompleted, StatusCanceled}
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a shipment request placed for a member
type Order struct {
	ID                int64       `json:"id" db:"id"`
	MemberID          int64       `json:"memberId" db:"member_id" form:"member" validate:"required,gt=0"`
	ShippingAddressID int64       `json:"shippingAddressId" db:"shipping_address_id" form:"shipping_address" validate:"required,gt=0"`
	Status            OrderStatus `json:"status" db:"status" form:"status" validate:"required,oneof=受付 対応中 完了 キャンセル"`
	Memo              string      `json:"memo,omitempty" db:"memo" form:"memo"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`

	// Denormalized for display; filled in by list queries
	MemberName           string `json:"memberName,omitempty" db:"-"`
	ShippingAddressLabel string `json:"shippingAddressLabel,omitempty" db:"-"`
	RecipientName        string `json:"recipientName,omitempty" db:"-"`
}

// NewOrder creates a received order
func NewOrder(memberID, shippingAddressID int64) *Order {
	now := time.Now().UTC()
	return &Order{
		MemberID:          memberID,
		ShippingAddressID: shippingAddressID,
		Status:            StatusReceived,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Normalize defaults the status and trims the memo
func (o *Order) Normalize() {
	if o.Status == "" {
		o.Status = StatusReceived
	}
	o.Memo = SanitizeString(o.Memo)
}

// Validate validates the order data
func (o *Order) Validate() error {
	return ValidateStruct(o)
}

func (o *Order) String() string {
	return fmt.Sprintf("Order %d", o.ID)
}
