package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/jackhellowin/portfolio-api/internal/config"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/utils"
	"github.com/jackhellowin/portfolio-api/pkg/logger"
)

// checkPassword is the single bcrypt comparison point of a login attempt.
var checkPassword = utils.CheckPassword

// EnvAdminID is the subject of the configuration-defined bootstrap admin.
const EnvAdminID uint = 0

type PrincipalSource int

const (
	PrincipalStoredUser PrincipalSource = iota + 1
	PrincipalEnvAdmin
)

// Principal is an authenticated identity.
type Principal struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Role     string          `json:"role"`
	Source   PrincipalSource `json:"-"`
}

func (p *Principal) IsEnvAdmin() bool {
	return p != nil && p.Source == PrincipalEnvAdmin
}

type LoginResult struct {
	User             Principal
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type RefreshResult struct {
	AccessToken     string
	AccessExpiresAt time.Time
}

// AuthService resolves credentials and tokens into principals and decides
// admin access. The bootstrap admin from configuration is never stored.
type AuthService struct {
	store  CredentialStore
	tokens *utils.TokenService
	admin  config.AdminConfig
	events EventPublisher

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(store CredentialStore, tokens *utils.TokenService, admin config.AdminConfig, events EventPublisher) *AuthService {
	if events == nil {
		events = NopPublisher{}
	}
	return &AuthService{
		store:  store,
		tokens: tokens,
		admin:  admin,
		events: events,
	}
}

// RefreshTTL is the lifetime of issued refresh tokens.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

// Login authenticates username/password and issues an access+refresh pair.
// Unknown users and wrong passwords both yield ErrInvalidCredentials, and a
// failed attempt costs one bcrypt comparison unless the username belongs to
// both the env admin and a stored user.
func (s *AuthService) Login(ctx context.Context, username, password string, meta RefreshTokenMeta) (*LoginResult, error) {
	envName := s.isEnvAdminName(username)
	if envName && s.matchEnvAdminPassword(password) {
		principal := s.envPrincipal()
		result, err := s.issuePair(principal)
		if err != nil {
			return nil, err
		}
		publishEvent(ctx, s.events, AuthEvent{Type: EventUserLogin, UserID: EnvAdminID, Username: principal.Username, EnvAdmin: true})
		return result, nil
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// A hashed env admin password was already compared once.
			if !envName || !utils.IsBcryptHash(s.admin.Password) {
				checkPassword(password, s.dummyPasswordHash())
			}
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	principal := storedPrincipal(user)
	result, err := s.issuePair(principal)
	if err != nil {
		return nil, err
	}

	if err := s.store.StoreRefreshToken(ctx, user.ID, utils.HashToken(result.RefreshToken), result.RefreshExpiresAt, meta); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID, s.tokens.Now()); err != nil {
		logger.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to update last login")
	}

	publishEvent(ctx, s.events, AuthEvent{Type: EventUserLogin, UserID: user.ID, Username: user.Username})
	return result, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token is not rotated. Stored users must still hold an unrevoked,
// unexpired token row and get their role re-read from the store.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	payload, err := s.tokens.Verify(refreshToken)
	if err != nil || payload.Type != utils.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	var principal Principal
	if payload.Subject == EnvAdminID {
		if !s.admin.Enabled() {
			return nil, ErrInvalidToken
		}
		principal = s.envPrincipal()
	} else {
		valid, err := s.store.IsRefreshTokenValid(ctx, utils.HashToken(refreshToken), s.tokens.Now())
		if err != nil {
			return nil, err
		}
		if !valid {
			return nil, ErrTokenRevoked
		}

		user, err := s.store.FindByID(ctx, payload.Subject)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, ErrTokenRevoked
			}
			return nil, err
		}
		principal = storedPrincipal(user)
	}

	accessToken, err := s.tokens.IssueAccess(principal.ID, principal.Username, principal.Role)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken:     accessToken,
		AccessExpiresAt: s.tokens.Now().Add(s.tokens.AccessTTL()),
	}, nil
}

// Logout revokes the presented refresh token. It never fails: a missing
// token is ignored and store errors are only logged.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	if err := s.store.RevokeRefreshToken(ctx, utils.HashToken(refreshToken), s.tokens.Now()); err != nil {
		logger.Warn().Err(err).Msg("Failed to revoke refresh token on logout")
		return
	}

	if payload, err := s.tokens.Verify(refreshToken); err == nil {
		publishEvent(ctx, s.events, AuthEvent{
			Type:     EventUserLogout,
			UserID:   payload.Subject,
			EnvAdmin: payload.Subject == EnvAdminID,
		})
	}
}

// Authenticate resolves a bearer access token into a principal.
func (s *AuthService) Authenticate(accessToken string) (*Principal, error) {
	payload, err := s.tokens.Verify(accessToken)
	if err != nil || payload.Type != utils.TokenTypeAccess {
		return nil, ErrUnauthorized
	}

	if payload.Subject == EnvAdminID {
		if !s.admin.Enabled() {
			return nil, ErrUnauthorized
		}
		return &Principal{
			ID:       EnvAdminID,
			Username: payload.Username,
			Role:     models.RoleAdmin,
			Source:   PrincipalEnvAdmin,
		}, nil
	}

	return &Principal{
		ID:       payload.Subject,
		Username: payload.Username,
		Role:     payload.Role,
		Source:   PrincipalStoredUser,
	}, nil
}

// Authorize allows admins and the bootstrap admin.
func (s *AuthService) Authorize(p *Principal) error {
	if p == nil {
		return ErrUnauthorized
	}
	if p.IsEnvAdmin() || p.Role == models.RoleAdmin {
		return nil
	}
	return ErrForbidden
}

// RevokeAllForUser revokes every active refresh token of a stored user.
func (s *AuthService) RevokeAllForUser(ctx context.Context, userID uint, actor *Principal) (int64, error) {
	if userID == EnvAdminID {
		return 0, invalid("id", "environment admin sessions are not stored")
	}
	if _, err := s.store.FindByID(ctx, userID); err != nil {
		return 0, err
	}

	revoked, err := s.store.RevokeAllForUser(ctx, userID, s.tokens.Now())
	if err != nil {
		return 0, err
	}

	publishEvent(ctx, s.events, AuthEvent{Type: EventUserSessionsRevoked, UserID: userID, ActorID: actorID(actor)})
	return revoked, nil
}

// ChangePassword replaces a stored user's password and revokes its sessions.
func (s *AuthService) ChangePassword(ctx context.Context, p *Principal, oldPassword, newPassword string) error {
	if p == nil {
		return ErrUnauthorized
	}
	if p.IsEnvAdmin() {
		return invalid("user", "environment admin password is managed by configuration")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.store.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if !checkPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	_, err = s.store.RevokeAllForUser(ctx, user.ID, s.tokens.Now())
	return err
}

func (s *AuthService) issuePair(p Principal) (*LoginResult, error) {
	now := s.tokens.Now()

	accessToken, err := s.tokens.IssueAccess(p.ID, p.Username, p.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefresh(p.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:             p,
		AccessToken:      accessToken,
		AccessExpiresAt:  now.Add(s.tokens.AccessTTL()),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.tokens.RefreshTTL()),
	}, nil
}

func (s *AuthService) isEnvAdminName(username string) bool {
	return s.admin.Enabled() && subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
}

func (s *AuthService) matchEnvAdminPassword(password string) bool {
	if utils.IsBcryptHash(s.admin.Password) {
		return checkPassword(password, s.admin.Password)
	}
	return utils.MatchConfiguredPassword(password, s.admin.Password)
}

func (s *AuthService) envPrincipal() Principal {
	return Principal{
		ID:       EnvAdminID,
		Username: s.admin.Username,
		Role:     models.RoleAdmin,
		Source:   PrincipalEnvAdmin,
	}
}

// dummyPasswordHash is compared against for unknown users so both failure
// paths cost one bcrypt comparison.
func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("unknown-user-timing-equalizer")
	})
	return s.dummyHash
}

func storedPrincipal(user *models.User) Principal {
	return Principal{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Source:   PrincipalStoredUser,
	}
}

func actorID(p *Principal) *uint {
	if p == nil {
		return nil
	}
	id := p.ID
	return &id
}
