package models

import "time"

// Student represents a card holder whose payments grant campus access.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Institution  string    `gorm:"size:255;not null" json:"institution"`
	FieldOfStudy string    `gorm:"size:255" json:"field_of_study"`
	StudyLevel   string    `gorm:"size:64" json:"study_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Payments     []Payment `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
