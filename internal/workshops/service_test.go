package workshops

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

func seedWorkshop(t *testing.T, svc *Service, w models.Workshop) models.Workshop {
	t.Helper()
	w.Published = true
	require.NoError(t, svc.Repo.CreateWorkshop(context.Background(), &w))
	return w
}

func TestService_ListWithSlotCounts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	w := seedWorkshop(t, svc, models.Workshop{
		Title: "Wheel throwing basics",
		Price: 35,
		TimeSlots: []models.WorkshopTimeSlot{
			{StartsAt: now.Add(24 * time.Hour), Capacity: 8},
			{StartsAt: now.Add(48 * time.Hour), Capacity: 8},
		},
	})

	views := svc.List(ctx, Filter{})
	require.Len(t, views, 1)
	assert.Equal(t, w.ID, views[0].ID)
	require.Len(t, views[0].TimeSlots, 2)
	assert.Equal(t, 8, views[0].TimeSlots[0].SpotsLeft)
}

func TestService_ListDegradesToEmptyOnError(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	require.NoError(t, svc.Repo.DB.Migrator().DropTable(&models.Workshop{}))

	views := svc.List(context.Background(), Filter{})
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestService_RegisterFillsSlot(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	w := seedWorkshop(t, svc, models.Workshop{
		Title: "Wheel throwing basics",
		TimeSlots: []models.WorkshopTimeSlot{
			{StartsAt: time.Now().UTC().Add(24 * time.Hour), Capacity: 1},
		},
	})
	slotID := w.TimeSlots[0].ID

	require.NoError(t, svc.Register(ctx, &models.WorkshopRegistration{TimeSlotID: slotID, UserID: uuid.New()}))

	err := svc.Register(ctx, &models.WorkshopRegistration{TimeSlotID: slotID, UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrSlotFull)

	view := svc.Get(ctx, w.ID)
	require.NotNil(t, view)
	require.Len(t, view.TimeSlots, 1)
	assert.Equal(t, 1, view.TimeSlots[0].RegisteredCount)
	assert.Zero(t, view.TimeSlots[0].SpotsLeft)
}

func TestService_RegisterRejectsDuplicate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	w := seedWorkshop(t, svc, models.Workshop{
		Title: "Wheel throwing basics",
		TimeSlots: []models.WorkshopTimeSlot{
			{StartsAt: time.Now().UTC().Add(24 * time.Hour), Capacity: 5},
		},
	})
	slotID := w.TimeSlots[0].ID

	require.NoError(t, svc.Register(ctx, &models.WorkshopRegistration{TimeSlotID: slotID, UserID: userID}))
	err := svc.Register(ctx, &models.WorkshopRegistration{TimeSlotID: slotID, UserID: userID})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestService_RegisterUnknownSlotFails(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.Register(context.Background(), &models.WorkshopRegistration{TimeSlotID: 9999, UserID: uuid.New()})
	require.Error(t, err)
}
