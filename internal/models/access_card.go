package models

import "time"

// AccessCard is the single QR card issued to a student.
type AccessCard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex" json:"student_id"`
	PaymentID uint      `gorm:"not null" json:"payment_id"`
	Serial    string    `gorm:"size:64;not null;uniqueIndex" json:"serial"`
	QRData    string    `gorm:"type:text;not null" json:"qr_data"`
	VerifyURL string    `gorm:"size:512" json:"verify_url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Student   Student   `gorm:"foreignKey:StudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Payment   Payment   `gorm:"foreignKey:PaymentID;references:ID" json:"-"`
}
