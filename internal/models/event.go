package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID            uuid.UUID           `gorm:"primaryKey"     json:"id"`
	Title         string              `gorm:"not null"       json:"title"`
	Description   string              `json:"description"`
	Location      string              `json:"location"`
	StartsAt      time.Time           `gorm:"index"          json:"starts_at"`
	EndsAt        time.Time           `json:"ends_at"`
	Capacity      uint                `json:"capacity"`
	Published     bool                `gorm:"default:true"   json:"published"`
	Images        []EventImage        `gorm:"foreignKey:EventID" json:"images,omitempty"`
	Speakers      []EventSpeaker      `gorm:"foreignKey:EventID" json:"speakers,omitempty"`
	Highlights    []EventHighlight    `gorm:"foreignKey:EventID" json:"highlights,omitempty"`
	Registrations []EventRegistration `gorm:"foreignKey:EventID" json:"registrations,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (Event) TableName() string { return "events" }

type EventImage struct {
	ID           uint      `gorm:"primaryKey"     json:"id"`
	EventID      uuid.UUID `gorm:"index;not null" json:"event_id"`
	URL          string    `gorm:"not null"       json:"url"`
	DisplayOrder int       `gorm:"not null"       json:"display_order"`
}

func (EventImage) TableName() string { return "event_images" }

type EventSpeaker struct {
	ID      uint      `gorm:"primaryKey"     json:"id"`
	EventID uuid.UUID `gorm:"index;not null" json:"event_id"`
	Name    string    `gorm:"not null"       json:"name"`
	Title   string    `json:"title"`
	Avatar  string    `json:"avatar"`
}

func (EventSpeaker) TableName() string { return "event_speakers" }

type EventHighlight struct {
	ID      uint      `gorm:"primaryKey"     json:"id"`
	EventID uuid.UUID `gorm:"index;not null" json:"event_id"`
	Text    string    `gorm:"not null"       json:"text"`
}

func (EventHighlight) TableName() string { return "event_highlights" }

type EventRegistration struct {
	ID        uint      `gorm:"primaryKey"                        json:"id"`
	EventID   uuid.UUID `gorm:"uniqueIndex:idx_event_user;index"  json:"event_id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_event_user"        json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (EventRegistration) TableName() string { return "event_registrations" }
