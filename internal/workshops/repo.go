package workshops

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/models"
)

var (
	ErrSlotFull          = errors.New("time slot is full")
	ErrAlreadyRegistered = errors.New("already registered")
)

type Filter struct {
	Offset int
	Limit  int
}

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) List(ctx context.Context, f Filter) ([]models.Workshop, error) {
	q := r.DB.WithContext(ctx).
		Preload("TimeSlots").
		Preload("TimeSlots.Registrations").
		Where("published = ?", true)

	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var workshops []models.Workshop
	if err := q.Order("title ASC").Find(&workshops).Error; err != nil {
		return nil, err
	}
	return workshops, nil
}

func (r *GormRepo) Get(ctx context.Context, id uuid.UUID) (*models.Workshop, error) {
	var workshop models.Workshop
	if err := r.DB.WithContext(ctx).
		Preload("TimeSlots").
		Preload("TimeSlots.Registrations").
		Where("id = ?", id).
		First(&workshop).Error; err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (r *GormRepo) Register(ctx context.Context, reg *models.WorkshopRegistration) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.WorkshopTimeSlot
		if err := tx.Where("id = ?", reg.TimeSlotID).First(&slot).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.WorkshopRegistration{}).
			Where("time_slot_id = ?", reg.TimeSlotID).
			Count(&count).Error; err != nil {
			return err
		}
		if slot.Capacity > 0 && count >= int64(slot.Capacity) {
			return ErrSlotFull
		}

		var existing int64
		if err := tx.Model(&models.WorkshopRegistration{}).
			Where("time_slot_id = ? AND user_id = ?", reg.TimeSlotID, reg.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		return tx.Create(reg).Error
	})
}

func (r *GormRepo) CreateWorkshop(ctx context.Context, workshop *models.Workshop) error {
	return r.DB.WithContext(ctx).Create(workshop).Error
}

func (r *GormRepo) SlotRegistrations(ctx context.Context, slotID uint) ([]models.WorkshopRegistration, error) {
	var regs []models.WorkshopRegistration
	if err := r.DB.WithContext(ctx).
		Where("time_slot_id = ?", slotID).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}
