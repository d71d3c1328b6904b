package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPaymentIsActiveAt(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	payment := Payment{ValidFrom: from, ValidUntil: until, Status: PaymentStatusValid}

	require.True(t, payment.IsActiveAt(from), "window start is inclusive")
	require.True(t, payment.IsActiveAt(until), "window end is inclusive")
	require.True(t, payment.IsActiveAt(time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)))
	require.False(t, payment.IsActiveAt(from.Add(-time.Second)))
	require.False(t, payment.IsActiveAt(until.Add(time.Second)))

	payment.Status = PaymentStatusPending
	require.False(t, payment.IsActiveAt(from.Add(time.Hour)))
}

func TestIsPaymentStatus(t *testing.T) {
	for _, status := range []string{PaymentStatusPending, PaymentStatusValid, PaymentStatusExpired} {
		require.True(t, IsPaymentStatus(status))
	}
	require.False(t, IsPaymentStatus("valid"))
	require.False(t, IsPaymentStatus(""))
}
