package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/models"
)

var (
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered")
)

type Filter struct {
	UpcomingOnly bool
	Offset       int
	Limit        int
}

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) List(ctx context.Context, f Filter) ([]models.Event, error) {
	q := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Speakers").
		Preload("Highlights").
		Preload("Registrations").
		Where("published = ?", true)

	if f.UpcomingOnly {
		q = q.Where("starts_at > ?", time.Now().UTC())
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var events []models.Event
	if err := q.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormRepo) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Speakers").
		Preload("Highlights").
		Preload("Registrations").
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Register inserts a registration inside a transaction, holding the event
// row so the capacity check cannot race with a concurrent registration.
func (r *GormRepo) Register(ctx context.Context, reg *models.EventRegistration) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where("id = ?", reg.EventID).First(&event).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ?", reg.EventID).
			Count(&count).Error; err != nil {
			return err
		}
		if event.Capacity > 0 && count >= int64(event.Capacity) {
			return ErrEventFull
		}

		var existing int64
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND user_id = ?", reg.EventID, reg.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		return tx.Create(reg).Error
	})
}

func (r *GormRepo) CreateEvent(ctx context.Context, event *models.Event) error {
	return r.DB.WithContext(ctx).Create(event).Error
}
