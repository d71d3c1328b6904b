package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Payment{}, &models.AccessCard{}, &models.ScanLog{}, &models.ActivityLog{}))
	return db
}

func createStudent(t *testing.T, db *gorm.DB, name string) models.Student {
	t.Helper()
	student := models.Student{
		Name:        name,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@campus.test",
		Institution: "Université de Yaoundé I",
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func createPayment(t *testing.T, db *gorm.DB, studentID uint, from, until time.Time, status string) models.Payment {
	t.Helper()
	payment := models.Payment{
		StudentID:  studentID,
		Amount:     decimal.NewFromInt(5000),
		ValidFrom:  from.UTC(),
		ValidUntil: until.UTC(),
		Status:     status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}
