package catalog

import (
	"context"
	"testing"

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

func ptr(f float64) *float64 { return &f }

func seedProduct(t *testing.T, svc *Service, p models.Product) models.Product {
	t.Helper()
	p.Published = true
	require.NoError(t, svc.Repo.CreateProduct(context.Background(), &p))
	return p
}

func TestFlatten_PrimaryImageIsLowestDisplayOrder(t *testing.T) {
	t.Parallel()

	p := models.Product{
		Name: "Clay mug",
		Images: []models.ProductImage{
			{URL: "https://cdn.example.com/b.png", DisplayOrder: 2},
			{URL: "https://cdn.example.com/a.png", DisplayOrder: 1},
			{URL: "https://cdn.example.com/c.png", DisplayOrder: 3},
		},
	}

	view := Flatten(p)
	assert.Equal(t, "https://cdn.example.com/a.png", view.ImageURL)
}

func TestFlatten_NoImagesMeansEmptyURL(t *testing.T) {
	t.Parallel()

	view := Flatten(models.Product{Name: "Clay mug"})
	assert.Equal(t, "", view.ImageURL)
	assert.Zero(t, view.Rating)
	assert.Zero(t, view.ReviewCount)
}

func TestFlatten_RatingIsMeanRoundedToOneDecimal(t *testing.T) {
	t.Parallel()

	p := models.Product{
		Reviews: []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}},
	}

	view := Flatten(p)
	assert.InDelta(t, 4.3, view.Rating, 1e-9)
	assert.Equal(t, 3, view.ReviewCount)
}

func TestService_ListFiltersByKind(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, models.Product{Name: "Clay mug", Kind: "good", Price: 8})
	seedProduct(t, svc, models.Product{Name: "Pottery 101", Kind: "course", Price: 49})

	goods := svc.List(ctx, Filter{Kind: "good"})
	require.Len(t, goods, 1)
	assert.Equal(t, "Clay mug", goods[0].Name)

	all := svc.List(ctx, Filter{})
	assert.Len(t, all, 2)
}

func TestService_ListDegradesToEmptyOnError(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	require.NoError(t, svc.Repo.DB.Migrator().DropTable(&models.Product{}))

	views := svc.List(context.Background(), Filter{})
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestService_GetReturnsNilWhenMissing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	assert.Nil(t, svc.Get(context.Background(), uuid.New()))
}

func TestService_SubmitReview(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, models.Product{Name: "Clay mug", Kind: "good", Price: 8})

	ok := svc.SubmitReview(ctx, &models.Review{ProductID: p.ID, Rating: 5, Comment: "lovely"})
	assert.True(t, ok)

	ok = svc.SubmitReview(ctx, &models.Review{ProductID: p.ID, Rating: 9})
	assert.False(t, ok, "out-of-range rating must soft-fail")

	view := svc.Get(ctx, p.ID)
	require.NotNil(t, view)
	assert.Equal(t, 1, view.ReviewCount)
	assert.InDelta(t, 5.0, view.Rating, 1e-9)
}

func TestService_PriceForPrefersDiscount(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	discounted := seedProduct(t, svc, models.Product{Name: "Clay mug", Kind: "good", Price: 12, DiscountPrice: ptr(9.5)})
	plain := seedProduct(t, svc, models.Product{Name: "Wool scarf", Kind: "good", Price: 20})

	price, ok := svc.PriceFor(ctx, discounted.ID.String())
	require.True(t, ok)
	assert.InDelta(t, 9.5, price, 1e-9)

	price, ok = svc.PriceFor(ctx, plain.ID.String())
	require.True(t, ok)
	assert.InDelta(t, 20.0, price, 1e-9)

	_, ok = svc.PriceFor(ctx, uuid.NewString())
	assert.False(t, ok)

	_, ok = svc.PriceFor(ctx, "not-a-uuid")
	assert.False(t, ok)
}
