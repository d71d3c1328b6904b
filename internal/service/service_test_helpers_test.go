package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/dto"
	"github.com/noah-isme/campus-pass-api/internal/models"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Payment{}, &models.AccessCard{}, &models.ScanLog{}, &models.ActivityLog{}))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string) models.Student {
	t.Helper()
	student := models.Student{
		Name:        name,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@campus.test",
		Institution: "Institut Supérieur de Commerce",
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedPayment(t *testing.T, db *gorm.DB, studentID uint, amount int64, from, until time.Time, status string) models.Payment {
	t.Helper()
	payment := models.Payment{
		StudentID:  studentID,
		Amount:     decimal.NewFromInt(amount),
		ValidFrom:  from.UTC(),
		ValidUntil: until.UTC(),
		Status:     status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func seedCard(t *testing.T, db *gorm.DB, studentID, paymentID uint) models.AccessCard {
	t.Helper()
	card := models.AccessCard{StudentID: studentID, PaymentID: paymentID, Serial: fmt.Sprintf("serial-%d", studentID), QRData: "payload"}
	require.NoError(t, db.Create(&card).Error)
	return card
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ScanEvent
	err    error
}

func (p *recordingPublisher) PublishScan(_ context.Context, event ScanEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type recordingActivity struct {
	entries []ActivityEntry
}

func (r *recordingActivity) Record(_ context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	r.entries = append(r.entries, entry)
	return dto.ActivityResponse{}, nil
}

type failingActivity struct{}

func (failingActivity) Record(context.Context, ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, errors.New("activity store unavailable")
}
