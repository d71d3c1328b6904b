package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-pass-api/internal/service"
	"github.com/noah-isme/campus-pass-api/internal/views"
)

// PublicHandler renders the unauthenticated verification and history pages.
type PublicHandler struct {
	access   service.AccessService
	payments service.PaymentService
	logger   zerolog.Logger
}

// NewPublicHandler constructs the public page handler.
func NewPublicHandler(access service.AccessService, payments service.PaymentService, logger zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		access:   access,
		payments: payments,
		logger:   logger.With().Str("component", "public_handler").Logger(),
	}
}

// Register attaches public routes to the router group.
func (h *PublicHandler) Register(router fiber.Router) {
	router.Get("/verify-public", h.verify)
	router.Get("/student-history/:studentId", h.history)
}

func (h *PublicHandler) verify(c *fiber.Ctx) error {
	studentID, ok := parseStudentID(c.Query("studentId"))
	if !ok {
		return h.render(c, fiber.StatusBadRequest, "verify", views.MissingIDPage(time.Now()))
	}

	decision, err := h.access.Verify(c.UserContext(), studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("public verification failed")
		return h.render(c, fiber.StatusInternalServerError, "verify", views.ErrorPage(views.VerifyRefused, "Verification unavailable", "Please try again later.", time.Now()))
	}

	page := views.NewVerifyPage(decision)
	status := fiber.StatusOK
	if page.Outcome == views.VerifyNotFound {
		status = fiber.StatusNotFound
	}

	return h.render(c, status, "verify", page)
}

func (h *PublicHandler) history(c *fiber.Ctx) error {
	studentID, ok := parseStudentID(c.Params("studentId"))
	if !ok {
		return h.render(c, fiber.StatusBadRequest, "verify", views.MissingIDPage(time.Now()))
	}

	history, err := h.payments.History(c.UserContext(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return h.render(c, fiber.StatusNotFound, "verify", views.ErrorPage(views.VerifyNotFound, "Student not found", "No student matches this link.", time.Now()))
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("failed to load payment history")
		return h.render(c, fiber.StatusInternalServerError, "verify", views.ErrorPage(views.VerifyRefused, "History unavailable", "Please try again later.", time.Now()))
	}

	return h.render(c, fiber.StatusOK, "history", views.NewHistoryPage(history))
}

func (h *PublicHandler) render(c *fiber.Ctx, status int, name string, data interface{}) error {
	return c.Status(status).Render(name, data, views.Layout)
}

func parseStudentID(raw string) (uint, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
