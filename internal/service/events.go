package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-pass-api/internal/access"
)

// ScanEvent is broadcast after every guard scan decision.
type ScanEvent struct {
	StudentID  uint           `json:"student_id"`
	CardID     uint           `json:"card_id,omitempty"`
	GuardianID uint           `json:"guardian_id"`
	Authorized bool           `json:"authorized"`
	Outcome    access.Outcome `json:"outcome"`
	Reason     access.Reason  `json:"reason"`
	ScannedAt  time.Time      `json:"scanned_at"`
}

// ScanEventPublisher delivers scan events to downstream consumers.
type ScanEventPublisher interface {
	PublishScan(ctx context.Context, event ScanEvent) error
}

type natsScanPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSScanPublisher publishes scan events on the given subject. A nil connection disables publishing.
func NewNATSScanPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) ScanEventPublisher {
	if subject == "" {
		subject = "campuspass.scans"
	}
	return &natsScanPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "scan_event_publisher").Logger(),
	}
}

func (p *natsScanPublisher) PublishScan(_ context.Context, event ScanEvent) error {
	if p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}

	p.logger.Debug().
		Uint("student_id", event.StudentID).
		Str("reason", string(event.Reason)).
		Msg("scan event published")
	return nil
}
