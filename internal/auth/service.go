package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/handsnminds/platform/internal/hash"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/tokens"
)

var ErrValidation = errors.New("validation")

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

// AuthUser is the merged identity shape the rest of the system consumes:
// identity fields, the profile row and the resolved role flattened together.
type AuthUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	Avatar      string    `json:"avatar,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Expertise   string    `json:"expertise,omitempty"`
}

// userMetadata mirrors the free-form metadata column on users.
type userMetadata struct {
	Role        string `json:"role"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type Service struct {
	Repo     GormRepo
	Notifier *Notifier
}

func (h *Service) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	tokenAccess := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	return tokenAccess.SignedString(h.Repo.JWTSecret)
}

func (h *Service) CreateRefreshToken(id string, refreshExp time.Time) (string, error) {
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        tokens.NewJTI(),
		},
	}

	tokenRefresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	return tokenRefresh.SignedString(h.Repo.RefreshSecret)
}

func (h *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
	}

	if err := h.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, err
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials, issues the token pair and announces the new
// session on the notifier. State containers pick the user up from the
// notification, not from this return value.
func (h *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := h.Repo.UserExist(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
			return nil, err
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	role := h.resolveRole(ctx, user)

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := h.CreateAccessToken(string(role), user.ID.String(), accessExp)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := h.CreateRefreshToken(user.ID.String(), refreshExp)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := h.Repo.AddRefreshToDB(refreshToken); err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	session := &Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}
	if h.Notifier != nil {
		h.Notifier.Established(session)
	}
	return session, nil
}

func (h *Service) Refresh(ctx context.Context, refreshToken, accessToken string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	refreshClaims, err := tokens.RefreshClaimsFromToken(refreshToken, h.Repo.RefreshSecret)
	if err != nil {
		return nil, err
	}
	accessClaims, err := tokens.AccessClaimsFromToken(accessToken, h.Repo.JWTSecret)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return nil, err
	}

	userID, err := uuid.Parse(refreshClaims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", ErrValidation)
	}

	role := string(RoleCustomer)
	if accessClaims != nil {
		role = accessClaims.Role
	}

	accessExp := time.Now().Add(accessTTL)
	accessTokenNew, err := h.CreateAccessToken(role, userID.String(), accessExp)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshTokenNew, err := h.CreateRefreshToken(userID.String(), refreshExp)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	newClaims, err := tokens.RefreshClaimsFromToken(refreshTokenNew, h.Repo.RefreshSecret)
	if err != nil {
		return nil, err
	}
	newModel := models.RefreshToken{
		Token:     tokens.Sha256Hex(refreshTokenNew),
		UserID:    userID,
		ExpiresAt: refreshExp.Unix(),
		JTI:       newClaims.ID,
	}
	if err := h.Repo.RotateRefreshToken(refreshClaims.ID, newModel); err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, err
	}

	session := &Session{
		UserID:       userID,
		AccessToken:  accessTokenNew,
		RefreshToken: refreshTokenNew,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}
	if h.Notifier != nil {
		h.Notifier.Established(session)
	}
	return session, nil
}

// Logout revokes the refresh token and announces the cleared session.
// Local user state is dropped by subscribers, not here.
func (h *Service) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := h.Repo.RevokeRefresh(ctx, refreshToken); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return err
	}
	if h.Notifier != nil {
		h.Notifier.Cleared()
	}
	return nil
}

// ResolveUser builds the AuthUser for an established session. Every lookup
// degrades on failure: a missing role assignment falls back to metadata and
// then to customer, a missing profile leaves the profile fields empty. The
// result is never nil.
func (h *Service) ResolveUser(ctx context.Context, session *Session) *AuthUser {
	l := logging.FromContext(ctx).With("svc", "auth.resolve_user", "user_id", session.UserID)

	user := &AuthUser{
		ID:    session.UserID,
		Email: session.Email,
		Role:  RoleCustomer,
	}

	var meta userMetadata
	dbUser, err := h.Repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		l.Warn("resolve_user_lookup_failed", "error", err)
	} else {
		user.Email = dbUser.Email
		if dbUser.Metadata != "" {
			if err := json.Unmarshal([]byte(dbUser.Metadata), &meta); err != nil {
				l.Warn("resolve_user_bad_metadata", "error", err)
			}
		}
		user.Role = h.roleFromChain(ctx, dbUser, meta)
	}

	user.Name = meta.Name
	user.PhoneNumber = meta.PhoneNumber
	user.Address = meta.Address

	profile, err := h.Repo.ProfileFor(ctx, session.UserID)
	if err != nil {
		l.Warn("resolve_user_no_profile", "error", err)
	} else {
		if name := strings.TrimSpace(profile.FirstName + " " + profile.LastName); name != "" {
			user.Name = name
		}
		if profile.PhoneNumber != "" {
			user.PhoneNumber = profile.PhoneNumber
		}
		if profile.Address != "" {
			user.Address = profile.Address
		}
		user.Avatar = profile.Avatar
		user.Bio = profile.Bio
		user.Expertise = profile.Expertise
	}

	return user
}

// roleFromChain resolves the role: assignment table first, then the role in
// identity metadata (written back best-effort), then customer.
func (h *Service) roleFromChain(ctx context.Context, user *models.User, meta userMetadata) Role {
	l := logging.FromContext(ctx).With("svc", "auth.resolve_role", "user_id", user.ID)

	if assigned, err := h.Repo.RoleFor(ctx, user.ID); err == nil {
		if r := Role(assigned); r.Valid() {
			return r
		}
		l.Warn("resolve_role_unknown_value", "role", assigned)
	} else {
		l.Warn("resolve_role_lookup_failed", "error", err)
	}

	if r := Role(meta.Role); r.Valid() {
		if err := h.Repo.SaveRole(ctx, user.ID, meta.Role); err != nil {
			l.Warn("resolve_role_writeback_failed", "error", err)
		}
		return r
	}

	return RoleCustomer
}

func (h *Service) resolveRole(ctx context.Context, user *models.User) Role {
	var meta userMetadata
	if user.Metadata != "" {
		_ = json.Unmarshal([]byte(user.Metadata), &meta)
	}
	return h.roleFromChain(ctx, user, meta)
}
