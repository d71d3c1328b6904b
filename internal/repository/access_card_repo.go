package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

// AccessCardRepository persists the QR cards issued to students.
type AccessCardRepository interface {
	GetByID(ctx context.Context, id uint) (models.AccessCard, error)
	// LatestByStudent returns the most recently created card for the student.
	LatestByStudent(ctx context.Context, studentID uint) (models.AccessCard, error)
	// Save creates the student's card or updates the existing one in place.
	Save(ctx context.Context, card *models.AccessCard) (created bool, err error)
}

type accessCardRepository struct {
	db *gorm.DB
}

// NewAccessCardRepository constructs an access card repository.
func NewAccessCardRepository(db *gorm.DB) AccessCardRepository {
	return &accessCardRepository{db: db}
}

func (r *accessCardRepository) GetByID(ctx context.Context, id uint) (models.AccessCard, error) {
	var card models.AccessCard
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		return models.AccessCard{}, err
	}

	return card, nil
}

func (r *accessCardRepository) LatestByStudent(ctx context.Context, studentID uint) (models.AccessCard, error) {
	var card models.AccessCard
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Order("id DESC").
		First(&card).Error
	if err != nil {
		return models.AccessCard{}, err
	}

	return card, nil
}

func (r *accessCardRepository) Save(ctx context.Context, card *models.AccessCard) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AccessCard
		err := tx.Where("student_id = ?", card.StudentID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(card).Error
		case err != nil:
			return err
		}

		updates := map[string]interface{}{
			"payment_id": card.PaymentID,
			"qr_data":    card.QRData,
			"verify_url": card.VerifyURL,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(card, existing.ID).Error
	})
	if err != nil {
		return false, err
	}

	return created, nil
}
