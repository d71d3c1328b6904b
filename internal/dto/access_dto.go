package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/campus-pass-api/internal/access"
)

// ScanRequest is the body posted by a guard device after reading a card.
type ScanRequest struct {
	QRData string `json:"qrData" validate:"required"`
}

// ScanResponse is the wire contract consumed by the guard application.
type ScanResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	Status      access.Outcome   `json:"status"`
	Reason      access.Reason    `json:"reason"`
	StudentName string           `json:"studentName,omitempty"`
	Institution string           `json:"institution,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ValidUntil  *time.Time       `json:"validUntil,omitempty"`
}

// NewScanResponse converts an access decision into the guard-facing payload.
func NewScanResponse(decision access.Decision) ScanResponse {
	response := ScanResponse{
		Success:     decision.Authorized,
		Message:     decision.Reason.Message(),
		Status:      decision.Outcome(),
		Reason:      decision.Reason,
		StudentName: decision.StudentName,
		Institution: decision.Institution,
	}

	if decision.LatestPayment != nil {
		amount := decision.LatestPayment.Amount
		validUntil := decision.LatestPayment.ValidUntil
		response.Amount = &amount
		response.ValidUntil = &validUntil
	}

	return response
}
