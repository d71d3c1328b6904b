package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

// ErrDailyScanExists is returned when a card already has a scan recorded for the same day.
var ErrDailyScanExists = errors.New("card already scanned for this day")

// ScanLogRepository stores the append-only guard scan log.
type ScanLogRepository interface {
	// RecordDaily inserts the log unless the card already has one for log.ScanDay.
	RecordDaily(ctx context.Context, log *models.ScanLog) error
	ListByCard(ctx context.Context, cardID uint, limit int) ([]models.ScanLog, error)
}

type scanLogRepository struct {
	db *gorm.DB
}

// NewScanLogRepository constructs a scan log repository.
func NewScanLogRepository(db *gorm.DB) ScanLogRepository {
	return &scanLogRepository{db: db}
}

func (r *scanLogRepository) RecordDaily(ctx context.Context, log *models.ScanLog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ScanLog{}).
			Where("card_id = ? AND scan_day = ?", log.CardID, log.ScanDay).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDailyScanExists
		}

		return tx.Create(log).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDailyScanExists
	}

	return err
}

func (r *scanLogRepository) ListByCard(ctx context.Context, cardID uint, limit int) ([]models.ScanLog, error) {
	query := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("scanned_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []models.ScanLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
