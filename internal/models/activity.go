package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// ActivityPaymentRecorded is logged when staff records a payment.
	ActivityPaymentRecorded = "payment.recorded"
	// ActivityPaymentStatusChanged is logged when a payment status is updated.
	ActivityPaymentStatusChanged = "payment.status_changed"
	// ActivityCardIssued is logged when a card is created or regenerated.
	ActivityCardIssued = "card.issued"
)

// ActivityLog is the audit trail of back-office changes to payments and cards.
type ActivityLog struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ActorID       uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole     string            `gorm:"size:32;not null" json:"actor_role"`
	Action        string            `gorm:"size:64;not null;index" json:"action"`
	EntityType    string            `gorm:"size:64;not null;index:idx_activity_entity" json:"entity_type"`
	EntityID      *uint             `gorm:"index:idx_activity_entity" json:"entity_id"`
	CorrelationID string            `gorm:"size:64" json:"correlation_id"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
}
