package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PaymentStatusPending marks a payment recorded but not yet confirmed.
	PaymentStatusPending = "PENDING"
	// PaymentStatusValid marks a confirmed payment eligible for access decisions.
	PaymentStatusValid = "VALID"
	// PaymentStatusExpired marks a payment that staff closed out.
	PaymentStatusExpired = "EXPIRED"
)

// Payment captures one fee payment and the window during which it grants access.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	StudentID  uint            `gorm:"not null;index" json:"student_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	ValidFrom  time.Time       `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time       `gorm:"not null;index" json:"valid_until"`
	Status     string          `gorm:"size:16;not null;index" json:"status"`
	Reference  string          `gorm:"size:128" json:"reference"`
	Note       string          `gorm:"type:text" json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Student    Student         `gorm:"foreignKey:StudentID;references:ID" json:"-"`
}

// IsActiveAt reports whether the payment grants access at the given instant.
func (p Payment) IsActiveAt(now time.Time) bool {
	if p.Status != PaymentStatusValid {
		return false
	}
	return !now.Before(p.ValidFrom) && !now.After(p.ValidUntil)
}

// IsPaymentStatus reports whether value is one of the known payment statuses.
func IsPaymentStatus(value string) bool {
	switch value {
	case PaymentStatusPending, PaymentStatusValid, PaymentStatusExpired:
		return true
	default:
		return false
	}
}
