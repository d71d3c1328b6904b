package service

import "errors"

var (
	// ErrStudentNotFound indicates the student was not found.
	ErrStudentNotFound = errors.New("student not found")
	// ErrPaymentNotFound indicates the payment was not found.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrInvalidPaymentAmount is returned when a payment amount is not strictly positive.
	ErrInvalidPaymentAmount = errors.New("payment amount must be greater than zero")
	// ErrInvalidPaymentWindow is returned when a validity bound cannot be parsed.
	ErrInvalidPaymentWindow = errors.New("payment validity dates must be RFC3339 timestamps or YYYY-MM-DD dates")
	// ErrCardNotFound indicates the student or card has no access card on file.
	ErrCardNotFound = errors.New("access card not found")
	// ErrNoValidPayment is returned when a card cannot be issued for lack of a VALID payment.
	ErrNoValidPayment = errors.New("student has no valid payment")
)
