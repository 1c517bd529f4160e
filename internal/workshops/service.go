package workshops

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
)

type SlotView struct {
	ID              uint      `json:"id"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Capacity        uint      `json:"capacity"`
	RegisteredCount int       `json:"registered_count"`
	SpotsLeft       int       `json:"spots_left"`
}

type WorkshopView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Price       float64    `json:"price"`
	TimeSlots   []SlotView `json:"time_slots"`
}

type Service struct {
	Repo *GormRepo
}

// List degrades to an empty slice on read failure.
func (s *Service) List(ctx context.Context, f Filter) []WorkshopView {
	l := logging.FromContext(ctx).With("svc", "workshops.list")

	workshops, err := s.Repo.List(ctx, f)
	if err != nil {
		l.Error("workshops_list_error", "error", err)
		return []WorkshopView{}
	}

	views := make([]WorkshopView, 0, len(workshops))
	for _, w := range workshops {
		views = append(views, flatten(w))
	}
	return views
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) *WorkshopView {
	l := logging.FromContext(ctx).With("svc", "workshops.get", "workshop_id", id)

	workshop, err := s.Repo.Get(ctx, id)
	if err != nil {
		l.Error("workshops_get_error", "error", err)
		return nil
	}
	view := flatten(*workshop)
	return &view
}

// Create persists a workshop with its time slots.
func (s *Service) Create(ctx context.Context, workshop *models.Workshop) error {
	l := logging.FromContext(ctx).With("svc", "workshops.create")

	if workshop.Title == "" {
		return fmt.Errorf("title required")
	}

	if err := s.Repo.CreateWorkshop(ctx, workshop); err != nil {
		l.Error("workshops_create_error", "error", err)
		return err
	}
	return nil
}

// SlotRegistrations lists the roster for one time slot, empty on read
// failure.
func (s *Service) SlotRegistrations(ctx context.Context, slotID uint) []models.WorkshopRegistration {
	l := logging.FromContext(ctx).With("svc", "workshops.slot_registrations", "slot_id", slotID)

	regs, err := s.Repo.SlotRegistrations(ctx, slotID)
	if err != nil {
		l.Error("workshops_slot_registrations_error", "error", err)
		return []models.WorkshopRegistration{}
	}
	return regs
}

// Register propagates failures for the caller to surface.
func (s *Service) Register(ctx context.Context, reg *models.WorkshopRegistration) error {
	if reg.TimeSlotID == 0 {
		return fmt.Errorf("time slot id required")
	}
	if reg.UserID == uuid.Nil {
		return fmt.Errorf("user id required")
	}
	return s.Repo.Register(ctx, reg)
}

func flatten(w models.Workshop) WorkshopView {
	view := WorkshopView{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Location:    w.Location,
		Price:       w.Price,
		TimeSlots:   make([]SlotView, 0, len(w.TimeSlots)),
	}

	for _, slot := range w.TimeSlots {
		sv := SlotView{
			ID:              slot.ID,
			StartsAt:        slot.StartsAt,
			EndsAt:          slot.EndsAt,
			Capacity:        slot.Capacity,
			RegisteredCount: len(slot.Registrations),
		}
		if slot.Capacity > 0 {
			sv.SpotsLeft = int(slot.Capacity) - len(slot.Registrations)
			if sv.SpotsLeft < 0 {
				sv.SpotsLeft = 0
			}
		}
		view.TimeSlots = append(view.TimeSlots, sv)
	}

	return view
}
