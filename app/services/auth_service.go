package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
)

type AuthService struct {
	d Deps
}

type RegisterInput struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Session is a signed-in user and their bearer token.
type Session struct {
	User  *models.User
	Token string
}

// cachedToken is what Resolve keeps in the cache per jti.
type cachedToken struct {
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenName = "api-token"

func tokenKey(id string) string { return "access_token:" + id }

// Register creates an active owner with a local password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.d.Store.Users.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Field("email", "The email has already been taken.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    email,
		Password: &hash,
		Role:     models.RoleOwner,
		Status:   models.UserActive,
	}
	if err := s.d.Store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return s.issue(ctx, user)
}

// Login checks a local password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.d.Store.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if apperr.KindOf(err) == apperr.NotFound {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password == nil || !auth.CheckPassword(*user.Password, in.Password) {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperr.ErrAccountDeactivated
	}

	now := s.d.now()
	if err := s.d.Store.Users.Update(ctx, user, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return s.issue(ctx, user)
}

// GoogleLogin verifies a Google id_token and upserts the user by subject.
func (s *AuthService) GoogleLogin(ctx context.Context, in GoogleLoginInput) (*Session, error) {
	id, err := s.d.Verifier.Verify(ctx, in.IDToken)
	if err != nil {
		logger.WithCtx(ctx).Info("auth: google token rejected", "error", err)
		return nil, apperr.Wrap(apperr.InvalidExternalToken, "", err)
	}

	session, err := s.upsertGoogleUser(ctx, id)
	if err != nil {
		if apperr.KindOf(err) == apperr.AccountDeactivated {
			return nil, err
		}
		logger.WithCtx(ctx).Warn("auth: google login failed", "subject", id.Subject, "error", err)
		return nil, &apperr.Error{Kind: apperr.Unauthenticated, Message: "Authentication failed", Err: err}
	}
	return session, nil
}

func (s *AuthService) upsertGoogleUser(ctx context.Context, id auth.Identity) (*Session, error) {
	now := s.d.now()
	email := strings.ToLower(id.Email)

	user, err := s.d.Store.Users.FindByGoogleID(ctx, id.Subject)
	switch {
	case err == nil:
		if !user.IsActive() {
			return nil, apperr.ErrAccountDeactivated
		}
		fields := map[string]interface{}{
			"name":              id.Name,
			"email":             email,
			"profile_image_url": id.Picture,
			"avatar":            id.Picture,
			"last_login_at":     now,
		}
		if err := s.d.Store.Users.Update(ctx, user, fields); err != nil {
			return nil, fmt.Errorf("auth: update google user: %w", err)
		}
	case apperr.KindOf(err) == apperr.NotFound:
		subject := id.Subject
		user = &models.User{
			Name:            id.Name,
			Email:           email,
			GoogleID:        &subject,
			ProfileImageURL: id.Picture,
			Avatar:          id.Picture,
			Role:            s.d.Settings.DefaultSignupRole,
			Status:          models.UserActive,
			EmailVerifiedAt: &now,
			LastLoginAt:     &now,
		}
		if user.Name == "" {
			user.Name = email
		}
		if err := s.d.Store.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("auth: create google user: %w", err)
		}
	default:
		return nil, err
	}

	user, err = s.d.Store.Users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// issue persists an AccessToken row and signs the matching JWT.
func (s *AuthService) issue(ctx context.Context, user *models.User) (*Session, error) {
	tokenID := uuid.NewString()
	signed, exp, err := s.d.Signer.Issue(user.ID, string(user.Role), tokenID)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}
	row := &models.AccessToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		Name:      tokenName,
		ExpiresAt: exp.UTC(),
	}
	if err := s.d.Store.Tokens.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("auth: store token: %w", err)
	}
	s.d.Events.Fire(event.UserLoggedIn, user.ID)
	return &Session{User: user, Token: signed}, nil
}

// Resolve authenticates a bearer token and returns a context carrying the
// caller's Principal and a logger tagged with user and shop.
func (s *AuthService) Resolve(ctx context.Context, token string) (context.Context, error) {
	claims, err := s.d.Signer.Parse(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "", err)
	}

	now := s.d.now()
	var cached cachedToken
	if !s.d.Cache.Get(ctx, tokenKey(claims.ID), &cached) {
		row, err := s.d.Store.Tokens.FindByTokenID(ctx, claims.ID)
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, apperr.ErrUnauthenticated
		}
		if err != nil {
			return nil, err
		}
		cached = cachedToken{UserID: row.UserID, ExpiresAt: row.ExpiresAt}
		if ttl := row.ExpiresAt.Sub(now); ttl > 0 {
			if err := s.d.Cache.Set(ctx, tokenKey(claims.ID), cached, min(ttl, 5*time.Minute)); err != nil {
				logger.WithCtx(ctx).Warn("auth: cache token", "error", err)
			}
		}
	}

	if !now.Before(cached.ExpiresAt) || cached.UserID != claims.UserID {
		return nil, apperr.ErrUnauthenticated
	}

	user, err := s.d.Store.Users.FindByID(ctx, cached.UserID)
	if apperr.KindOf(err) == apperr.NotFound {
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, apperr.ErrUnauthenticated
	}

	if err := s.d.Store.Tokens.Touch(ctx, claims.ID, now); err != nil {
		logger.WithCtx(ctx).Warn("auth: touch token", "error", err)
	}

	p := policies.PrincipalOf(user, claims.ID)
	ctx = policies.WithPrincipal(ctx, p)
	ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", p.UserID, "shop_id", p.Shop()))
	return ctx, nil
}

// Logout revokes only the token the caller presented.
func (s *AuthService) Logout(ctx context.Context, p policies.Principal) error {
	if err := s.d.Store.Tokens.DeleteByTokenID(ctx, p.TokenID); err != nil {
		return err
	}
	return s.d.Cache.Del(ctx, tokenKey(p.TokenID))
}

// CurrentUser returns the caller with their shop.
func (s *AuthService) CurrentUser(ctx context.Context, p policies.Principal) (*models.User, error) {
	return s.d.Store.Users.FindWithShop(ctx, p.UserID)
}

// PruneExpired deletes access tokens past their expiry.
func (s *AuthService) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.d.Store.Tokens.PruneExpired(ctx, s.d.now())
	if err != nil {
		return 0, err
	}
	metrics.TokensPruned.Add(float64(n))
	return n, nil
}

func revokeUserTokens(ctx context.Context, d Deps, userID uint) error {
	ids, err := d.Store.Tokens.DeleteForUser(ctx, userID)
	if err != nil {
		return err
	}
	return evictTokens(ctx, d, ids)
}

// evictTokens drops cached token rows so revoked sessions fail at once.
func evictTokens(ctx context.Context, d Deps, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = tokenKey(id)
	}
	return d.Cache.Del(ctx, keys...)
}
