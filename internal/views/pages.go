package views

import (
	"fmt"
	"time"

	"github.com/noah-isme/campus-pass-api/internal/access"
	"github.com/noah-isme/campus-pass-api/internal/dto"
)

// VerifyOutcome selects the variant of the verification page.
type VerifyOutcome string

const (
	VerifyMissingID  VerifyOutcome = "missing_id"
	VerifyNotFound   VerifyOutcome = "not_found"
	VerifyRefused    VerifyOutcome = "refused"
	VerifyExpired    VerifyOutcome = "expired"
	VerifyAuthorized VerifyOutcome = "authorized"
)

// VerifyPage is the data bound to the verify template.
type VerifyPage struct {
	Outcome    VerifyOutcome
	Title      string
	Heading    string
	Message    string
	Tone       string
	Student    *dto.StudentSummary
	Payment    *dto.PaymentResponse
	HistoryURL string
	CheckedAt  time.Time
}

// MissingIDPage is shown when the request carries no usable student id.
func MissingIDPage(now time.Time) VerifyPage {
	return VerifyPage{
		Outcome:   VerifyMissingID,
		Title:     "Verification unavailable",
		Heading:   "Missing student identifier",
		Message:   "The verification link is incomplete. Scan the card again or ask the front desk for help.",
		Tone:      "error",
		CheckedAt: now,
	}
}

// NewVerifyPage maps a public verification decision onto the page variant.
func NewVerifyPage(decision access.Decision) VerifyPage {
	page := VerifyPage{CheckedAt: decision.DecidedAt}

	switch {
	case decision.Reason == access.ReasonStudentNotFound:
		page.Outcome = VerifyNotFound
		page.Title = "Student not found"
		page.Heading = "Unknown student"
		page.Message = "No student matches this card."
		page.Tone = "error"
		return page
	case decision.Authorized:
		page.Outcome = VerifyAuthorized
		page.Title = "Access authorized"
		page.Heading = "Access authorized"
		page.Tone = "ok"
	case decision.Reason == access.ReasonExpired:
		page.Outcome = VerifyExpired
		page.Title = "Payment expired"
		page.Heading = "Payment expired"
		page.Tone = "warn"
	default:
		page.Outcome = VerifyRefused
		page.Title = "Access refused"
		page.Heading = "Access refused"
		page.Tone = "error"
	}

	page.Message = decision.Reason.Message()
	page.Student = &dto.StudentSummary{
		ID:          decision.StudentID,
		Name:        decision.StudentName,
		Institution: decision.Institution,
	}
	page.HistoryURL = fmt.Sprintf("/public/student-history/%d", decision.StudentID)
	if decision.LatestPayment != nil {
		payment := dto.NewPaymentResponse(*decision.LatestPayment)
		page.Payment = &payment
	}

	return page
}

// HistoryPage is the data bound to the history template.
type HistoryPage struct {
	Title   string
	History dto.PaymentHistoryResponse
}

// NewHistoryPage wraps a payment history for rendering.
func NewHistoryPage(history dto.PaymentHistoryResponse) HistoryPage {
	return HistoryPage{
		Title:   fmt.Sprintf("Payment history of %s", history.Student.Name),
		History: history,
	}
}

// ErrorPage reuses the verify template for history lookups that fail.
func ErrorPage(outcome VerifyOutcome, heading, message string, now time.Time) VerifyPage {
	return VerifyPage{
		Outcome:   outcome,
		Title:     heading,
		Heading:   heading,
		Message:   message,
		Tone:      "error",
		CheckedAt: now,
	}
}
