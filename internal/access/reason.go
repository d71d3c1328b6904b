// Package access holds the rules that decide whether a presented card grants entry.
package access

// Reason is the internal cause behind an access decision.
type Reason string

const (
	ReasonStudentNotFound      Reason = "STUDENT_NOT_FOUND"
	ReasonNotYetValid          Reason = "NOT_YET_VALID"
	ReasonExpired              Reason = "EXPIRED"
	ReasonPayloadStatusInvalid Reason = "PAYLOAD_STATUS_INVALID"
	ReasonNoValidPayment       Reason = "NO_VALID_PAYMENT"
	ReasonAlreadyScannedToday  Reason = "ALREADY_SCANNED_TODAY"
	ReasonNoCardOnFile         Reason = "NO_CARD_ON_FILE"
	ReasonAuthorized           Reason = "AUTHORIZED"
)

// Outcome is the coarse category shown to guards.
type Outcome string

const (
	OutcomeAuthorized Outcome = "AUTHORIZED"
	OutcomeExpired    Outcome = "EXPIRED"
	OutcomeRefused    Outcome = "REFUSED"
)

// Outcome collapses the reason into the category surfaced to the guard UI.
func (r Reason) Outcome() Outcome {
	switch r {
	case ReasonAuthorized:
		return OutcomeAuthorized
	case ReasonExpired:
		return OutcomeExpired
	default:
		return OutcomeRefused
	}
}

// Message returns the human readable explanation for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonStudentNotFound:
		return "student not found"
	case ReasonNotYetValid:
		return "payment is not yet valid"
	case ReasonExpired:
		return "payment has expired"
	case ReasonPayloadStatusInvalid:
		return "card payment status is not valid"
	case ReasonNoValidPayment:
		return "no valid payment on file"
	case ReasonAlreadyScannedToday:
		return "card already scanned today"
	case ReasonNoCardOnFile:
		return "no access card on file"
	case ReasonAuthorized:
		return "access authorized"
	default:
		return "access refused"
	}
}

// Variant identifies which call site produced a decision.
type Variant string

const (
	// VariantScan is the authenticated guard flow; it checks the daily limit and logs scans.
	VariantScan Variant = "scan"
	// VariantVerify is the public, read-only flow.
	VariantVerify Variant = "verify"
)
