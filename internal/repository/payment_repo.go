package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-pass-api/internal/models"
)

// PaymentRepository exposes persistence helpers for student payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (models.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status string) (models.Payment, error)
	// LatestValid returns the VALID payment with the furthest valid_until, or gorm.ErrRecordNotFound.
	LatestValid(ctx context.Context, studentID uint) (models.Payment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository constructs a payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uint, status string) (models.Payment, error) {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.Payment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Payment{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *paymentRepository) LatestValid(ctx context.Context, studentID uint) (models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, models.PaymentStatusValid).
		Order("valid_until DESC").
		Order("id DESC").
		First(&payment).Error
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

func (r *paymentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}

	return payments, nil
}
