package events

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{Repo: &GormRepo{DB: initTestDB(t)}}
}

func seedEvent(t *testing.T, svc *Service, e models.Event) models.Event {
	t.Helper()
	e.Published = true
	require.NoError(t, svc.Repo.CreateEvent(context.Background(), &e))
	return e
}

func TestService_ListUpcomingOnly(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedEvent(t, svc, models.Event{Title: "Past fair", StartsAt: now.Add(-48 * time.Hour)})
	seedEvent(t, svc, models.Event{Title: "Craft fair", StartsAt: now.Add(48 * time.Hour)})

	upcoming := svc.List(ctx, Filter{UpcomingOnly: true})
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Craft fair", upcoming[0].Title)

	all := svc.List(ctx, Filter{})
	assert.Len(t, all, 2)
}

func TestService_ListDegradesToEmptyOnError(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	require.NoError(t, svc.Repo.DB.Migrator().DropTable(&models.Event{}))

	views := svc.List(context.Background(), Filter{})
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestService_GetFlattensNestedRows(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	e := seedEvent(t, svc, models.Event{
		Title:    "Craft fair",
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
		Images: []models.EventImage{
			{URL: "https://cdn.example.com/late.png", DisplayOrder: 5},
			{URL: "https://cdn.example.com/hero.png", DisplayOrder: 1},
		},
		Speakers:   []models.EventSpeaker{{Name: "Sana Iqbal", Title: "Potter"}},
		Highlights: []models.EventHighlight{{Text: "Live wheel demo"}, {Text: "Free clay"}},
	})

	view := svc.Get(ctx, e.ID)
	require.NotNil(t, view)
	assert.Equal(t, "https://cdn.example.com/hero.png", view.ImageURL)
	assert.Equal(t, []string{"Live wheel demo", "Free clay"}, view.Highlights)
	require.Len(t, view.Speakers, 1)
	assert.Equal(t, "Sana Iqbal", view.Speakers[0].Name)
	assert.Zero(t, view.RegisteredCount)
}

func TestService_RegisterEnforcesCapacity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	e := seedEvent(t, svc, models.Event{
		Title:    "Tiny workshop night",
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
		Capacity: 1,
	})

	err := svc.Register(ctx, &models.EventRegistration{EventID: e.ID, UserID: uuid.New(), Email: "a@example.com"})
	require.NoError(t, err)

	err = svc.Register(ctx, &models.EventRegistration{EventID: e.ID, UserID: uuid.New(), Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestService_RegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	e := seedEvent(t, svc, models.Event{
		Title:    "Craft fair",
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
		Capacity: 10,
	})

	require.NoError(t, svc.Register(ctx, &models.EventRegistration{EventID: e.ID, UserID: userID}))
	err := svc.Register(ctx, &models.EventRegistration{EventID: e.ID, UserID: userID})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	view := svc.Get(ctx, e.ID)
	require.NotNil(t, view)
	assert.Equal(t, 1, view.RegisteredCount)
}

func TestService_RegisterValidatesIDs(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	err := svc.Register(ctx, &models.EventRegistration{UserID: uuid.New()})
	require.Error(t, err)

	err = svc.Register(ctx, &models.EventRegistration{EventID: uuid.New()})
	require.Error(t, err)
}
