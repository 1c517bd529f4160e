package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Donation struct {
	ID        uuid.UUID `gorm:"primaryKey"   json:"id"`
	UserID    uuid.UUID `gorm:"index"        json:"user_id"`
	DonorName string    `json:"donor_name"`
	Email     string    `json:"email"`
	Amount    float64   `gorm:"not null"     json:"amount"`
	Message   string    `json:"message"`
	Status    string    `gorm:"default:received" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Donation) TableName() string { return "donations" }

type Subscriber struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subscriber) TableName() string { return "newsletter_subscribers" }
