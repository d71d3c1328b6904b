package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

// PaymentCreateRequest captures a payment recorded by accounting staff.
type PaymentCreateRequest struct {
	StudentID  uint            `json:"student_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	ValidFrom  string          `json:"valid_from" validate:"required"`
	ValidUntil string          `json:"valid_until" validate:"required"`
	Status     string          `json:"status" validate:"omitempty,oneof=PENDING VALID EXPIRED"`
	Reference  string          `json:"reference" validate:"omitempty,max=128"`
	Note       string          `json:"note" validate:"omitempty,max=2000"`
}

// PaymentStatusUpdateRequest changes the status of an existing payment.
type PaymentStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING VALID EXPIRED"`
}

// PaymentResponse serializes a payment for API clients.
type PaymentResponse struct {
	ID         uint            `json:"id"`
	StudentID  uint            `json:"student_id"`
	Amount     decimal.Decimal `json:"amount"`
	ValidFrom  time.Time       `json:"valid_from"`
	ValidUntil time.Time       `json:"valid_until"`
	Status     string          `json:"status"`
	Reference  string          `json:"reference"`
	Note       string          `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewPaymentResponse converts a payment model into a DTO.
func NewPaymentResponse(model models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         model.ID,
		StudentID:  model.StudentID,
		Amount:     model.Amount,
		ValidFrom:  model.ValidFrom,
		ValidUntil: model.ValidUntil,
		Status:     model.Status,
		Reference:  model.Reference,
		Note:       model.Note,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

const (
	// HistoryBadgeActive marks a VALID payment whose window contains now.
	HistoryBadgeActive = "active"
	// HistoryBadgeExpired marks a payment that no longer grants access.
	HistoryBadgeExpired = "expired"
	// HistoryBadgePending marks a payment awaiting confirmation.
	HistoryBadgePending = "pending"
)

// PaymentHistoryItem is one row of a student's payment history.
type PaymentHistoryItem struct {
	PaymentResponse
	IsActive     bool            `json:"is_active"`
	Badge        string          `json:"badge"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// StudentSummary describes the card holder on history and verification views.
type StudentSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"field_of_study"`
	StudyLevel   string `json:"study_level"`
}

// NewStudentSummary converts a student model into a summary DTO.
func NewStudentSummary(model models.Student) StudentSummary {
	return StudentSummary{
		ID:           model.ID,
		Name:         model.Name,
		Institution:  model.Institution,
		FieldOfStudy: model.FieldOfStudy,
		StudyLevel:   model.StudyLevel,
	}
}

// PaymentHistoryResponse lists every payment of a student with derived badges.
type PaymentHistoryResponse struct {
	Student     StudentSummary       `json:"student"`
	Payments    []PaymentHistoryItem `json:"payments"`
	Total       decimal.Decimal      `json:"total"`
	ActiveCount int                  `json:"active_count"`
	GeneratedAt time.Time            `json:"generated_at"`
	CacheHit    bool                 `json:"cache_hit"`
}
