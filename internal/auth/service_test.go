package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/tokens"
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
	return &Service{
		Repo: GormRepo{
			DB:            initTestDB(t),
			JWTSecret:     []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
		Notifier: NewNotifier(),
	}
}

func TestService_CreateAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	userID := "b2c7e9fa-0a94-4a1e-bb2e-2f9f14c6b2d1"
	accessExp := time.Now().Add(15 * time.Minute).UTC()

	token, err := svc.CreateAccessToken("admin", userID, accessExp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.AccessClaimsFromToken(token, svc.Repo.JWTSecret)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, userID, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, accessExp, claims.ExpiresAt.Time, time.Second)
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "a@b.c", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestService_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "maya@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)

	_, err = svc.Register(ctx, "maya@example.com", "secret")
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	session, err := svc.Login(ctx, "maya@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	_, err = svc.Login(ctx, "maya@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_LoginAnnouncesSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	events, cancel := svc.Notifier.Subscribe()
	defer cancel()

	_, err := svc.Register(ctx, "maya@example.com", "secret")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "maya@example.com", "secret")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, SessionEstablished, ev.Type)
		require.NotNil(t, ev.Session)
		assert.Equal(t, session.UserID, ev.Session.UserID)
	case <-time.After(time.Second):
		t.Fatal("no session event published")
	}

	require.NoError(t, svc.Logout(ctx, session.RefreshToken))
	select {
	case ev := <-events:
		assert.Equal(t, SessionCleared, ev.Type)
		assert.Nil(t, ev.Session)
	case <-time.After(time.Second):
		t.Fatal("no clear event published")
	}
}

func TestService_ResolveUser_RoleAssignmentWins(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ines@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.SaveRole(ctx, user.ID, "instructor"))

	resolved := svc.ResolveUser(ctx, &Session{UserID: user.ID, Email: user.Email})
	assert.Equal(t, RoleInstructor, resolved.Role)
	assert.True(t, resolved.Role.IsInstructor())
}

func TestService_ResolveUser_MetadataFallbackWritesBack(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "olu@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.DB.Model(user).
		Update("metadata", `{"role":"seller","phone_number":"+4917612345","address":"Bergstr. 3"}`).Error)

	resolved := svc.ResolveUser(ctx, &Session{UserID: user.ID, Email: user.Email})
	assert.Equal(t, RoleSeller, resolved.Role)
	assert.Equal(t, "+4917612345", resolved.PhoneNumber)
	assert.Equal(t, "Bergstr. 3", resolved.Address)

	// Fallback role must land in the assignment table.
	assigned, err := svc.Repo.RoleFor(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "seller", assigned)
}

func TestService_ResolveUser_DefaultsToCustomer(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "kim@example.com", "secret")
	require.NoError(t, err)

	// Role lookups that error must degrade, not abort.
	require.NoError(t, svc.Repo.DB.Migrator().DropTable(&models.UserRole{}))

	resolved := svc.ResolveUser(ctx, &Session{UserID: user.ID, Email: user.Email})
	assert.Equal(t, RoleCustomer, resolved.Role)
	assert.False(t, resolved.Role.IsAdmin())
	assert.False(t, resolved.Role.IsSeller())
	assert.False(t, resolved.Role.IsInstructor())
}

func TestService_ResolveUser_MergesProfile(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "sana@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.DB.Model(user).
		Update("metadata", `{"name":"S. Iqbal","phone_number":"+4917600000","address":"Altstr. 1"}`).Error)
	require.NoError(t, svc.Repo.DB.Create(&models.Profile{
		UserID:      user.ID,
		FirstName:   "Sana",
		LastName:    "Iqbal",
		Avatar:      "https://cdn.example.com/sana.png",
		PhoneNumber: "+4917699999",
		Address:     "Neustr. 7",
		Bio:         "ceramics teacher",
		Expertise:   "pottery",
	}).Error)

	resolved := svc.ResolveUser(ctx, &Session{UserID: user.ID, Email: user.Email})

	// Profile values win over identity metadata.
	assert.Equal(t, "Sana Iqbal", resolved.Name)
	assert.Equal(t, "+4917699999", resolved.PhoneNumber)
	assert.Equal(t, "Neustr. 7", resolved.Address)
	assert.Equal(t, "https://cdn.example.com/sana.png", resolved.Avatar)
	assert.Equal(t, "ceramics teacher", resolved.Bio)
	assert.Equal(t, "pottery", resolved.Expertise)
	assert.Equal(t, "sana@example.com", resolved.Email)
}

func TestService_RefreshRotatesToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "maya@example.com", "secret")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "maya@example.com", "secret")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, session.RefreshToken, session.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)

	// The old refresh token is revoked by rotation.
	_, err = svc.Refresh(ctx, session.RefreshToken, session.AccessToken)
	require.Error(t, err)
}

func TestService_RefreshKeepsRoleOnExpiredAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ade@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.SaveRole(ctx, user.ID, "admin"))
	session, err := svc.Login(ctx, "ade@example.com", "secret")
	require.NoError(t, err)

	expired, err := svc.CreateAccessToken("admin", user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, session.RefreshToken, expired)
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(renewed.AccessToken, svc.Repo.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}
