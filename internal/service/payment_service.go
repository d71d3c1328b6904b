package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/dto"
	"github.com/noah-isme/campus-pass-api/internal/models"
	"github.com/noah-isme/campus-pass-api/internal/observability"
	"github.com/noah-isme/campus-pass-api/internal/repository"
)

// PaymentService records payments and serves a student's payment history.
type PaymentService interface {
	Record(ctx context.Context, actor ActivityActor, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error)
	UpdateStatus(ctx context.Context, actor ActivityActor, id uint, payload dto.PaymentStatusUpdateRequest) (dto.PaymentResponse, error)
	History(ctx context.Context, studentID uint) (dto.PaymentHistoryResponse, error)
}

type paymentService struct {
	payments  repository.PaymentRepository
	students  repository.StudentRepository
	activity  ActivityRecorder
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	location  *time.Location
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// PaymentServiceConfig groups the optional collaborators of the payment service.
type PaymentServiceConfig struct {
	Activity ActivityRecorder
	Cache    *redis.Client
	CacheTTL time.Duration
	Location *time.Location
}

// NewPaymentService constructs a PaymentService implementation.
func NewPaymentService(payments repository.PaymentRepository, students repository.StudentRepository, validate *validator.Validate, cfg PaymentServiceConfig, logger zerolog.Logger) PaymentService {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	return &paymentService{
		payments:  payments,
		students:  students,
		activity:  cfg.Activity,
		validator: validate,
		cache:     cfg.Cache,
		cacheTTL:  ttl,
		location:  location,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "payment_service").Logger(),
		now:       time.Now,
	}
}

func (s *paymentService) Record(ctx context.Context, actor ActivityActor, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	if !payload.Amount.IsPositive() {
		return dto.PaymentResponse{}, ErrInvalidPaymentAmount
	}

	validFrom, err := parseWindowBound(payload.ValidFrom, s.location, false)
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	validUntil, err := parseWindowBound(payload.ValidUntil, s.location, true)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	exists, err := s.students.Exists(ctx, payload.StudentID)
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	if !exists {
		return dto.PaymentResponse{}, ErrStudentNotFound
	}

	status := payload.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	payment := models.Payment{
		StudentID:  payload.StudentID,
		Amount:     payload.Amount,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		Status:     status,
		Reference:  strings.TrimSpace(s.sanitizer.Sanitize(payload.Reference)),
		Note:       strings.TrimSpace(s.sanitizer.Sanitize(payload.Note)),
	}

	if err := s.payments.Create(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.invalidateHistory(ctx, payment.StudentID)

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		CorrelationID: actor.CorrelationID,
		Action:        models.ActivityPaymentRecorded,
		EntityType:    "payment",
		EntityID:      &payment.ID,
		Metadata: map[string]interface{}{
			"student_id":  payment.StudentID,
			"amount":      payment.Amount.String(),
			"status":      payment.Status,
			"valid_until": payment.ValidUntil,
		},
	})

	s.logger.Info().
		Uint("payment_id", payment.ID).
		Uint("student_id", payment.StudentID).
		Str("status", payment.Status).
		Msg("payment recorded")

	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, actor ActivityActor, id uint, payload dto.PaymentStatusUpdateRequest) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	current, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}

	if current.Status == payload.Status {
		return dto.NewPaymentResponse(current), nil
	}

	updated, err := s.payments.UpdateStatus(ctx, id, payload.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}

	s.invalidateHistory(ctx, updated.StudentID)

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		CorrelationID: actor.CorrelationID,
		Action:        models.ActivityPaymentStatusChanged,
		EntityType:    "payment",
		EntityID:      &updated.ID,
		Metadata: map[string]interface{}{
			"student_id": updated.StudentID,
			"from":       current.Status,
			"to":         updated.Status,
		},
	})

	return dto.NewPaymentResponse(updated), nil
}

// historySnapshot is the cached form of a history: raw records only, so badges
// and activity are always derived at read time.
type historySnapshot struct {
	Student  models.Student   `json:"student"`
	Payments []models.Payment `json:"payments"`
}

func (s *paymentService) History(ctx context.Context, studentID uint) (dto.PaymentHistoryResponse, error) {
	snapshot, cacheHit, err := s.loadHistory(ctx, studentID)
	if err != nil {
		return dto.PaymentHistoryResponse{}, err
	}

	response := buildHistory(snapshot.Student, snapshot.Payments, s.now())
	response.CacheHit = cacheHit
	return response, nil
}

func (s *paymentService) loadHistory(ctx context.Context, studentID uint) (historySnapshot, bool, error) {
	cacheKey := historyCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var snapshot historySnapshot
			if unmarshalErr := json.Unmarshal([]byte(cached), &snapshot); unmarshalErr == nil {
				observability.HistoryCache().WithLabelValues("hit").Inc()
				return snapshot, true, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read payment history cache")
		}
		observability.HistoryCache().WithLabelValues("miss").Inc()
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return historySnapshot{}, false, ErrStudentNotFound
		}
		return historySnapshot{}, false, err
	}

	payments, err := s.payments.ListByStudent(ctx, studentID)
	if err != nil {
		return historySnapshot{}, false, err
	}

	snapshot := historySnapshot{Student: student, Payments: payments}

	if s.cache != nil {
		payload, err := json.Marshal(snapshot)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store payment history cache")
			}
		}
	}

	return snapshot, false, nil
}

func (s *paymentService) invalidateHistory(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, historyCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate payment history cache")
	}
}

func historyCacheKey(studentID uint) string {
	return fmt.Sprintf("history:student:%d", studentID)
}

// buildHistory derives badges and totals for payments listed newest first.
// Pending payments are shown but never counted towards the totals.
func buildHistory(student models.Student, payments []models.Payment, now time.Time) dto.PaymentHistoryResponse {
	items := make([]dto.PaymentHistoryItem, len(payments))
	running := decimal.Zero
	activeCount := 0

	for i := len(payments) - 1; i >= 0; i-- {
		payment := payments[i]
		active := payment.IsActiveAt(now)

		badge := dto.HistoryBadgeExpired
		switch {
		case payment.Status == models.PaymentStatusPending:
			badge = dto.HistoryBadgePending
		case active:
			badge = dto.HistoryBadgeActive
			activeCount++
		}

		if payment.Status != models.PaymentStatusPending {
			running = running.Add(payment.Amount)
		}

		items[i] = dto.PaymentHistoryItem{
			PaymentResponse: dto.NewPaymentResponse(payment),
			IsActive:        active,
			Badge:           badge,
			RunningTotal:    running,
		}
	}

	return dto.PaymentHistoryResponse{
		Student:     dto.NewStudentSummary(student),
		Payments:    items,
		Total:       running,
		ActiveCount: activeCount,
		GeneratedAt: now.UTC(),
	}
}

// parseWindowBound accepts RFC3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day in loc.
func parseWindowBound(value string, loc *time.Location, upper bool) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed.UTC(), nil
	}

	day, err := time.ParseInLocation("2006-01-02", trimmed, loc)
	if err != nil {
		return time.Time{}, ErrInvalidPaymentWindow
	}
	if upper {
		day = day.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return day.UTC(), nil
}
