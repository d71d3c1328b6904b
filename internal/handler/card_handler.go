package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-pass-api/internal/dto"
	"github.com/noah-isme/campus-pass-api/internal/service"
	"github.com/noah-isme/campus-pass-api/internal/utils"
)

// CardHandler exposes access card issuance for staff.
type CardHandler struct {
	service service.CardService
	logger  zerolog.Logger
}

// NewCardHandler constructs the card handler.
func NewCardHandler(service service.CardService, logger zerolog.Logger) *CardHandler {
	return &CardHandler{
		service: service,
		logger:  logger.With().Str("component", "card_handler").Logger(),
	}
}

// Register attaches card management routes and the per-student card route.
func (h *CardHandler) Register(cards fiber.Router, students fiber.Router) {
	cards.Post("", h.issue)
	cards.Get("/:id/scans", h.scans)
	students.Get("/:id/card", h.forStudent)
}

func (h *CardHandler) issue(c *fiber.Ctx) error {
	var payload dto.CardIssueRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	card, err := h.service.Issue(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if card.Created {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "access card issued", card)
	}
	return utils.SendSuccess(c, "access card updated", card)
}

func (h *CardHandler) forStudent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	card, err := h.service.GetForStudent(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "access card retrieved", card)
}

func (h *CardHandler) scans(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	logs, err := h.service.ListScans(c.UserContext(), id, limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "scan logs retrieved", logs)
}

func (h *CardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrCardNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "access card not found")
	case errors.Is(err, service.ErrNoValidPayment):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "student has no valid payment")
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
