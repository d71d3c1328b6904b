package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/handler"
	"github.com/noah-isme/campus-pass-api/internal/middleware"
	"github.com/noah-isme/campus-pass-api/internal/models"
	"github.com/noah-isme/campus-pass-api/internal/repository"
	"github.com/noah-isme/campus-pass-api/internal/service"
	"github.com/noah-isme/campus-pass-api/internal/views"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

// newTestServer wires every handler against an in-memory database. Requests carry the
// staff identity in X-Test-User and X-Test-Role headers instead of a bearer token.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Payment{}, &models.AccessCard{}, &models.ScanLog{}, &models.ActivityLog{}))

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())

	students := repository.NewStudentRepository(db)
	payments := repository.NewPaymentRepository(db)
	cards := repository.NewAccessCardRepository(db)
	scans := repository.NewScanLogRepository(db)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), logger)

	accessService := service.NewAccessService(students, payments, cards, scans, nil, time.UTC, logger)
	paymentService := service.NewPaymentService(payments, students, validate, service.PaymentServiceConfig{Activity: activity, Location: time.UTC}, logger)
	cardService := service.NewCardService(cards, payments, students, scans, activity, validate, "https://pass.example.edu", logger)

	app := fiber.New(fiber.Config{Views: views.New(time.UTC)})
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-Test-User"); raw != "" {
			id, _ := strconv.ParseUint(raw, 10, 64)
			c.Locals(middleware.LocalUserID, uint(id))
			c.Locals(middleware.LocalUserRole, c.Get("X-Test-Role"))
		}
		return c.Next()
	})

	api := app.Group("/api/v1")
	handler.NewAccessHandler(accessService, validate, logger).Register(api.Group("/cards"))
	handler.NewPaymentHandler(paymentService, logger).Register(api.Group("/payments"), api.Group("/students"))
	handler.NewCardHandler(cardService, logger).Register(api.Group("/access-cards"), api.Group("/students"))
	handler.NewActivityHandler(activity, logger).Register(api.Group("/activity"))
	handler.NewPublicHandler(accessService, paymentService, logger).Register(app.Group("/public"))

	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User", "7")
	req.Header.Set("X-Test-Role", "admin")

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) seedStudent(t *testing.T, name string) models.Student {
	t.Helper()
	student := models.Student{
		Name:        name,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@campus.test",
		Institution: "Institut Supérieur de Commerce",
	}
	require.NoError(t, s.db.Create(&student).Error)
	return student
}

func (s *testServer) seedPayment(t *testing.T, studentID uint, amount int64, from, until time.Time, status string) models.Payment {
	t.Helper()
	payment := models.Payment{
		StudentID:  studentID,
		Amount:     decimal.NewFromInt(amount),
		ValidFrom:  from.UTC(),
		ValidUntil: until.UTC(),
		Status:     status,
	}
	require.NoError(t, s.db.Create(&payment).Error)
	return payment
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
