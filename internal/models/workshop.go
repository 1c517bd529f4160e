package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workshop struct {
	ID          uuid.UUID          `gorm:"primaryKey"   json:"id"`
	Title       string             `gorm:"not null"     json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	Price       float64            `json:"price"`
	Published   bool               `gorm:"default:true" json:"published"`
	TimeSlots   []WorkshopTimeSlot `gorm:"foreignKey:WorkshopID" json:"time_slots,omitempty"`
}

func (w *Workshop) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (Workshop) TableName() string { return "workshops" }

type WorkshopTimeSlot struct {
	ID            uint                   `gorm:"primaryKey"     json:"id"`
	WorkshopID    uuid.UUID              `gorm:"index;not null" json:"workshop_id"`
	StartsAt      time.Time              `gorm:"not null"       json:"starts_at"`
	EndsAt        time.Time              `json:"ends_at"`
	Capacity      uint                   `json:"capacity"`
	Registrations []WorkshopRegistration `gorm:"foreignKey:TimeSlotID" json:"registrations,omitempty"`
}

func (WorkshopTimeSlot) TableName() string { return "workshop_time_slots" }

type WorkshopRegistration struct {
	ID         uint      `gorm:"primaryKey"                      json:"id"`
	TimeSlotID uint      `gorm:"uniqueIndex:idx_slot_user;index" json:"time_slot_id"`
	UserID     uuid.UUID `gorm:"uniqueIndex:idx_slot_user"       json:"user_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

func (WorkshopRegistration) TableName() string { return "workshop_registrations" }
