package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

func TestPaymentRepositoryLatestValidPicksFurthestValidUntil(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	student := createStudent(t, db, "Awa Ndiaye")

	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	createPayment(t, db, student.ID, jan, jan.AddDate(0, 6, 0), models.PaymentStatusValid)
	latest := createPayment(t, db, student.ID, jan, jan.AddDate(1, 0, 0), models.PaymentStatusValid)
	createPayment(t, db, student.ID, jan, jan.AddDate(2, 0, 0), models.PaymentStatusPending)
	createPayment(t, db, student.ID, jan, jan.AddDate(3, 0, 0), models.PaymentStatusExpired)

	payment, err := repo.LatestValid(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, latest.ID, payment.ID)
}

func TestPaymentRepositoryLatestValidNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	student := createStudent(t, db, "Kofi Mensah")

	now := time.Now().UTC()
	createPayment(t, db, student.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusPending)

	_, err := repo.LatestValid(context.Background(), student.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPaymentRepositoryUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	student := createStudent(t, db, "Lina Haddad")

	now := time.Now().UTC()
	payment := createPayment(t, db, student.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusPending)

	updated, err := repo.UpdateStatus(context.Background(), payment.ID, models.PaymentStatusValid)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusValid, updated.Status)

	_, err = repo.UpdateStatus(context.Background(), 9999, models.PaymentStatusValid)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentRepositoryListByStudentIncludesEveryStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	student := createStudent(t, db, "Jean Dupont")
	other := createStudent(t, db, "Other Person")

	now := time.Now().UTC()
	createPayment(t, db, student.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusPending)
	createPayment(t, db, student.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusValid)
	createPayment(t, db, student.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusExpired)
	createPayment(t, db, other.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusValid)

	payments, err := repo.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	require.Greater(t, payments[0].ID, payments[2].ID, "expected newest payment first")
}
