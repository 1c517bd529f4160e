package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
)

// EventView flattens an event row and its nested resources for the UI.
type EventView struct {
	ID              uuid.UUID             `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Location        string                `json:"location"`
	StartsAt        time.Time             `json:"starts_at"`
	EndsAt          time.Time             `json:"ends_at"`
	Capacity        uint                  `json:"capacity"`
	ImageURL        string                `json:"image_url"`
	Speakers        []models.EventSpeaker `json:"speakers"`
	Highlights      []string              `json:"highlights"`
	RegisteredCount int                   `json:"registered_count"`
}

type Service struct {
	Repo *GormRepo
}

// List degrades to an empty slice on read failure.
func (s *Service) List(ctx context.Context, f Filter) []EventView {
	l := logging.FromContext(ctx).With("svc", "events.list")

	events, err := s.Repo.List(ctx, f)
	if err != nil {
		l.Error("events_list_error", "error", err)
		return []EventView{}
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, flatten(e))
	}
	return views
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) *EventView {
	l := logging.FromContext(ctx).With("svc", "events.get", "event_id", id)

	event, err := s.Repo.Get(ctx, id)
	if err != nil {
		l.Error("events_get_error", "error", err)
		return nil
	}
	view := flatten(*event)
	return &view
}

// Register propagates failures: the caller surfaces them (full event,
// duplicate registration) to the user.
func (s *Service) Register(ctx context.Context, reg *models.EventRegistration) error {
	if reg.EventID == uuid.Nil {
		return fmt.Errorf("event id required")
	}
	if reg.UserID == uuid.Nil {
		return fmt.Errorf("user id required")
	}
	return s.Repo.Register(ctx, reg)
}

func flatten(e models.Event) EventView {
	view := EventView{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		Capacity:        e.Capacity,
		Speakers:        e.Speakers,
		RegisteredCount: len(e.Registrations),
	}
	if view.Speakers == nil {
		view.Speakers = []models.EventSpeaker{}
	}

	best := 0
	for _, img := range e.Images {
		if view.ImageURL == "" || img.DisplayOrder < best {
			view.ImageURL = img.URL
			best = img.DisplayOrder
		}
	}

	view.Highlights = make([]string, 0, len(e.Highlights))
	for _, h := range e.Highlights {
		view.Highlights = append(view.Highlights, h.Text)
	}

	return view
}
