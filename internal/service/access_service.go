package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/access"
	"github.com/noah-isme/campus-pass-api/internal/models"
	"github.com/noah-isme/campus-pass-api/internal/observability"
	"github.com/noah-isme/campus-pass-api/internal/repository"
)

// AccessService decides whether a student may enter.
type AccessService interface {
	// Scan runs the full guard decision and records the scan when access is granted.
	Scan(ctx context.Context, guardID uint, payload access.Payload) (access.Decision, error)
	// Verify runs the read-only public decision for a student.
	Verify(ctx context.Context, studentID uint) (access.Decision, error)
}

type accessService struct {
	students repository.StudentRepository
	payments repository.PaymentRepository
	cards    repository.AccessCardRepository
	scans    repository.ScanLogRepository
	events   ScanEventPublisher
	location *time.Location
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewAccessService constructs the access decision service. Calendar days for the
// daily scan limit are computed in location.
func NewAccessService(
	students repository.StudentRepository,
	payments repository.PaymentRepository,
	cards repository.AccessCardRepository,
	scans repository.ScanLogRepository,
	events ScanEventPublisher,
	location *time.Location,
	logger zerolog.Logger,
) AccessService {
	if location == nil {
		location = time.Local
	}

	return &accessService{
		students: students,
		payments: payments,
		cards:    cards,
		scans:    scans,
		events:   events,
		location: location,
		logger:   logger.With().Str("component", "access_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/campus-pass-api/internal/service/access"),
		now:      time.Now,
	}
}

func (s *accessService) Scan(ctx context.Context, guardID uint, payload access.Payload) (access.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "access.scan", trace.WithAttributes(
		attribute.Int64("access.student_id", int64(payload.StudentID)),
		attribute.Int64("access.guard_id", int64(guardID)),
	))
	defer span.End()

	now := s.now()
	decision, done, err := s.evaluate(ctx, access.VariantScan, payload.StudentID, &payload, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return access.Decision{}, err
	}

	if !done {
		decision, err = s.consumeDailyScan(ctx, decision, guardID, now)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return access.Decision{}, err
		}
	}

	span.SetAttributes(attribute.String("access.reason", string(decision.Reason)))
	s.observe(decision)
	s.publish(ctx, decision, guardID)

	return decision, nil
}

func (s *accessService) Verify(ctx context.Context, studentID uint) (access.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "access.verify", trace.WithAttributes(
		attribute.Int64("access.student_id", int64(studentID)),
	))
	defer span.End()

	decision, done, err := s.evaluate(ctx, access.VariantVerify, studentID, nil, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return access.Decision{}, err
	}
	if !done {
		decision.Authorized = true
	}

	span.SetAttributes(attribute.String("access.reason", string(decision.Reason)))
	s.observe(decision)

	return decision, nil
}

// evaluate runs the checks shared by both call sites: student lookup, latest VALID
// payment, the optional presented-payload pre-filter and the authoritative window.
// done reports whether a refusal already settled the decision.
func (s *accessService) evaluate(ctx context.Context, variant access.Variant, studentID uint, payload *access.Payload, now time.Time) (access.Decision, bool, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			decision := access.Refuse(variant, access.ReasonStudentNotFound, now)
			decision.StudentID = studentID
			return decision, true, nil
		}
		return access.Decision{}, false, err
	}

	decision := access.Decision{
		Variant:     variant,
		StudentID:   student.ID,
		StudentName: student.Name,
		Institution: student.Institution,
		DecidedAt:   now,
	}

	var latest *models.Payment
	payment, err := s.payments.LatestValid(ctx, student.ID)
	switch {
	case err == nil:
		latest = &payment
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return access.Decision{}, false, err
	}
	decision.LatestPayment = latest

	if payload != nil {
		if reason := access.CheckPayload(*payload, now); reason != access.ReasonAuthorized {
			decision.Reason = reason
			return decision, true, nil
		}
	}

	decision.Reason = access.CheckLatestPayment(latest, now)
	return decision, decision.Reason != access.ReasonAuthorized, nil
}

func (s *accessService) consumeDailyScan(ctx context.Context, decision access.Decision, guardID uint, now time.Time) (access.Decision, error) {
	card, err := s.cards.LatestByStudent(ctx, decision.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			decision.Reason = access.ReasonNoCardOnFile
			return decision, nil
		}
		return access.Decision{}, err
	}
	decision.CardID = card.ID

	log := models.ScanLog{
		CardID:     card.ID,
		GuardianID: guardID,
		ScannedAt:  now.UTC(),
		ScanDay:    access.DayKey(now, s.location),
	}
	if err := s.scans.RecordDaily(ctx, &log); err != nil {
		if errors.Is(err, repository.ErrDailyScanExists) {
			decision.Reason = access.ReasonAlreadyScannedToday
			return decision, nil
		}
		return access.Decision{}, err
	}

	observability.ScanLogsWritten().Inc()
	decision.ScanLogID = log.ID
	decision.Reason = access.ReasonAuthorized
	decision.Authorized = true
	return decision, nil
}

func (s *accessService) observe(decision access.Decision) {
	observability.AccessDecisions().WithLabelValues(string(decision.Variant), string(decision.Reason)).Inc()

	s.logger.Info().
		Str("variant", string(decision.Variant)).
		Uint("student_id", decision.StudentID).
		Uint("card_id", decision.CardID).
		Str("reason", string(decision.Reason)).
		Bool("authorized", decision.Authorized).
		Msg("access decision")
}

func (s *accessService) publish(ctx context.Context, decision access.Decision, guardID uint) {
	if s.events == nil {
		return
	}

	event := ScanEvent{
		StudentID:  decision.StudentID,
		CardID:     decision.CardID,
		GuardianID: guardID,
		Authorized: decision.Authorized,
		Outcome:    decision.Outcome(),
		Reason:     decision.Reason,
		ScannedAt:  decision.DecidedAt.UTC(),
	}
	if err := s.events.PublishScan(ctx, event); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", decision.StudentID).Msg("failed to publish scan event")
	}
}
