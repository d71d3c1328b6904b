package models

import "time"

// ScanLog records a granted guard scan. Rows are never updated or deleted.
//
// ScanDay holds the local calendar day (YYYY-MM-DD) of ScannedAt; the unique
// index on (card_id, scan_day) caps consumed access at one per card per day.
type ScanLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CardID     uint       `gorm:"not null;uniqueIndex:idx_scan_logs_card_day" json:"card_id"`
	GuardianID uint       `gorm:"not null;index" json:"guardian_id"`
	ScannedAt  time.Time  `gorm:"not null;index" json:"scanned_at"`
	ScanDay    string     `gorm:"size:10;not null;uniqueIndex:idx_scan_logs_card_day" json:"scan_day"`
	Card       AccessCard `gorm:"foreignKey:CardID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
