package access

import (
	"time"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

// Decision is the result of evaluating a card or student against the payment records.
type Decision struct {
	Variant       Variant
	Authorized    bool
	Reason        Reason
	StudentID     uint
	StudentName   string
	Institution   string
	LatestPayment *models.Payment
	CardID        uint
	ScanLogID     uint
	DecidedAt     time.Time
}

// Outcome returns the guard-facing category for the decision.
func (d Decision) Outcome() Outcome {
	return d.Reason.Outcome()
}

// Refuse builds a non-authorized decision for the given reason.
func Refuse(variant Variant, reason Reason, now time.Time) Decision {
	return Decision{Variant: variant, Reason: reason, DecidedAt: now}
}

// CheckPayload applies the cheap pre-filter against the window and status embedded
// in the presented card. It returns ReasonAuthorized when the payload passes.
func CheckPayload(payload Payload, now time.Time) Reason {
	if now.Before(payload.ValidFrom) {
		return ReasonNotYetValid
	}
	if now.After(payload.ValidUntil) {
		return ReasonExpired
	}
	if payload.Status != models.PaymentStatusValid {
		return ReasonPayloadStatusInvalid
	}
	return ReasonAuthorized
}

// CheckLatestPayment re-derives validity from the authoritative payment record.
// latest must be the newest VALID payment for the student, or nil when none exists.
func CheckLatestPayment(latest *models.Payment, now time.Time) Reason {
	if latest == nil {
		return ReasonNoValidPayment
	}
	if !latest.IsActiveAt(now) {
		return ReasonExpired
	}
	return ReasonAuthorized
}

// DayKey formats the calendar day containing now in loc as YYYY-MM-DD.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format("2006-01-02")
}
