package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/access"
	"github.com/noah-isme/campus-pass-api/internal/dto"
	"github.com/noah-isme/campus-pass-api/internal/models"
	"github.com/noah-isme/campus-pass-api/internal/repository"
)

const defaultScanListLimit = 50

// CardService issues access cards and exposes their scan history.
type CardService interface {
	Issue(ctx context.Context, actor ActivityActor, payload dto.CardIssueRequest) (dto.CardResponse, error)
	GetForStudent(ctx context.Context, studentID uint) (dto.CardResponse, error)
	ListScans(ctx context.Context, cardID uint, limit int) ([]dto.ScanLogResponse, error)
}

type cardService struct {
	cards         repository.AccessCardRepository
	payments      repository.PaymentRepository
	students      repository.StudentRepository
	scans         repository.ScanLogRepository
	activity      ActivityRecorder
	validator     *validator.Validate
	publicBaseURL string
	logger        zerolog.Logger
}

// NewCardService constructs a CardService. publicBaseURL prefixes the verification link embedded in each card.
func NewCardService(
	cards repository.AccessCardRepository,
	payments repository.PaymentRepository,
	students repository.StudentRepository,
	scans repository.ScanLogRepository,
	activity ActivityRecorder,
	validate *validator.Validate,
	publicBaseURL string,
	logger zerolog.Logger,
) CardService {
	return &cardService{
		cards:         cards,
		payments:      payments,
		students:      students,
		scans:         scans,
		activity:      activity,
		validator:     validate,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		logger:        logger.With().Str("component", "card_service").Logger(),
	}
}

func (s *cardService) Issue(ctx context.Context, actor ActivityActor, payload dto.CardIssueRequest) (dto.CardResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CardResponse{}, err
	}

	student, err := s.students.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CardResponse{}, ErrStudentNotFound
		}
		return dto.CardResponse{}, err
	}

	payment, err := s.payments.LatestValid(ctx, student.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CardResponse{}, ErrNoValidPayment
		}
		return dto.CardResponse{}, err
	}

	verifyURL := s.verifyURL(student.ID)
	qrData, err := access.EncodePayload(access.Payload{
		StudentID:  student.ID,
		Amount:     payment.Amount,
		ValidFrom:  payment.ValidFrom.UTC(),
		ValidUntil: payment.ValidUntil.UTC(),
		Status:     payment.Status,
		VerifyURL:  verifyURL,
	})
	if err != nil {
		return dto.CardResponse{}, err
	}

	card := models.AccessCard{
		StudentID: student.ID,
		PaymentID: payment.ID,
		Serial:    uuid.NewString(),
		QRData:    qrData,
		VerifyURL: verifyURL,
	}

	created, err := s.cards.Save(ctx, &card)
	if err != nil {
		return dto.CardResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		CorrelationID: actor.CorrelationID,
		Action:        models.ActivityCardIssued,
		EntityType:    "access_card",
		EntityID:      &card.ID,
		Metadata: map[string]interface{}{
			"student_id": student.ID,
			"payment_id": payment.ID,
			"created":    created,
		},
	})

	s.logger.Info().
		Uint("card_id", card.ID).
		Uint("student_id", student.ID).
		Bool("created", created).
		Msg("access card issued")

	response := dto.NewCardResponse(card)
	response.Created = created
	return response, nil
}

func (s *cardService) GetForStudent(ctx context.Context, studentID uint) (dto.CardResponse, error) {
	card, err := s.cards.LatestByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CardResponse{}, ErrCardNotFound
		}
		return dto.CardResponse{}, err
	}

	return dto.NewCardResponse(card), nil
}

func (s *cardService) ListScans(ctx context.Context, cardID uint, limit int) ([]dto.ScanLogResponse, error) {
	if _, err := s.cards.GetByID(ctx, cardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if limit <= 0 || limit > 500 {
		limit = defaultScanListLimit
	}

	logs, err := s.scans.ListByCard(ctx, cardID, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewScanLogResponseSlice(logs), nil
}

func (s *cardService) verifyURL(studentID uint) string {
	query := url.Values{}
	query.Set("studentId", fmt.Sprintf("%d", studentID))
	return fmt.Sprintf("%s/public/verify-public?%s", s.publicBaseURL, query.Encode())
}
