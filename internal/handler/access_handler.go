package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-pass-api/internal/access"
	"github.com/noah-isme/campus-pass-api/internal/dto"
	"github.com/noah-isme/campus-pass-api/internal/service"
	"github.com/noah-isme/campus-pass-api/internal/utils"
)

const invalidDataMessage = "invalid data"

// AccessHandler serves the guard scan endpoint.
type AccessHandler struct {
	service   service.AccessService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAccessHandler constructs the guard scan handler.
func NewAccessHandler(service service.AccessService, validate *validator.Validate, logger zerolog.Logger) *AccessHandler {
	return &AccessHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "access_handler").Logger(),
	}
}

// Register attaches the scan route. Extra handlers run before the scan, e.g. a rate limiter.
func (h *AccessHandler) Register(router fiber.Router, before ...fiber.Handler) {
	router.Post("/scan", append(before, h.scan)...)
}

func (h *AccessHandler) scan(c *fiber.Ctx) error {
	var payload dto.ScanRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, invalidDataMessage)
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, invalidDataMessage)
	}

	qr, err := access.DecodePayload(payload.QRData)
	if err != nil {
		requestLogger(h.logger, c).Debug().Err(err).Msg("rejected qr payload")
		return utils.SendError(c, fiber.StatusBadRequest, invalidDataMessage)
	}

	decision, err := h.service.Scan(c.UserContext(), userIDFromContext(c), qr)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", qr.StudentID).Msg("scan failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(dto.NewScanResponse(decision))
}
