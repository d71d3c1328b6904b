package dto

import (
	"time"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

// CardIssueRequest asks for a student's card to be generated or refreshed.
type CardIssueRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// CardResponse serializes an access card for staff.
type CardResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	PaymentID uint      `json:"payment_id"`
	Serial    string    `json:"serial"`
	QRData    string    `json:"qr_data"`
	VerifyURL string    `json:"verify_url"`
	Created   bool      `json:"created"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCardResponse converts a card model into a DTO.
func NewCardResponse(model models.AccessCard) CardResponse {
	return CardResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		PaymentID: model.PaymentID,
		Serial:    model.Serial,
		QRData:    model.QRData,
		VerifyURL: model.VerifyURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ScanLogResponse serializes a recorded guard scan.
type ScanLogResponse struct {
	ID         uint      `json:"id"`
	CardID     uint      `json:"card_id"`
	GuardianID uint      `json:"guardian_id"`
	ScannedAt  time.Time `json:"scanned_at"`
	ScanDay    string    `json:"scan_day"`
}

// NewScanLogResponseSlice converts scan log models into DTOs.
func NewScanLogResponseSlice(logs []models.ScanLog) []ScanLogResponse {
	responses := make([]ScanLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, ScanLogResponse{
			ID:         log.ID,
			CardID:     log.CardID,
			GuardianID: log.GuardianID,
			ScannedAt:  log.ScannedAt,
			ScanDay:    log.ScanDay,
		})
	}
	return responses
}
