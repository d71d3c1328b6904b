package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

func seedCard(t *testing.T, db *gorm.DB) models.AccessCard {
	t.Helper()
	student := createStudent(t, db, "Ibrahim Traore")
	now := time.Now().UTC()
	payment := createPayment(t, db, student.ID, now, now.AddDate(0, 1, 0), models.PaymentStatusValid)
	card := models.AccessCard{StudentID: student.ID, PaymentID: payment.ID, Serial: "serial", QRData: "payload"}
	require.NoError(t, db.Create(&card).Error)
	return card
}

func TestScanLogRepositoryRecordDailyRejectsSecondScanSameDay(t *testing.T) {
	db := newTestDB(t)
	repo := NewScanLogRepository(db)
	card := seedCard(t, db)

	morning := time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)
	first := models.ScanLog{CardID: card.ID, GuardianID: 3, ScannedAt: morning, ScanDay: "2024-06-15"}
	require.NoError(t, repo.RecordDaily(context.Background(), &first))
	require.NotZero(t, first.ID)

	second := models.ScanLog{CardID: card.ID, GuardianID: 4, ScannedAt: morning.Add(4 * time.Hour), ScanDay: "2024-06-15"}
	require.ErrorIs(t, repo.RecordDaily(context.Background(), &second), ErrDailyScanExists)

	nextDay := models.ScanLog{CardID: card.ID, GuardianID: 3, ScannedAt: morning.AddDate(0, 0, 1), ScanDay: "2024-06-16"}
	require.NoError(t, repo.RecordDaily(context.Background(), &nextDay))

	logs, err := repo.ListByCard(context.Background(), card.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, nextDay.ID, logs[0].ID)
}

func TestScanLogUniqueIndexGuardsCardDay(t *testing.T) {
	db := newTestDB(t)
	card := seedCard(t, db)

	at := time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.ScanLog{CardID: card.ID, GuardianID: 1, ScannedAt: at, ScanDay: "2024-06-15"}).Error)

	err := db.Create(&models.ScanLog{CardID: card.ID, GuardianID: 2, ScannedAt: at, ScanDay: "2024-06-15"}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
