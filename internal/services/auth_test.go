package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackhellowin/portfolio-api/internal/config"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noAdmin = config.AdminConfig{}

func TestLogin_StoredUserRoundTrip(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	ctx := context.Background()
	user := f.createUser(t, "alice", "s3cret!", models.RoleAdmin)

	result, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{ClientIP: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
	assert.False(t, result.User.IsEnvAdmin())

	payload, err := f.tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, utils.TokenTypeAccess, payload.Type)
	assert.Equal(t, user.ID, payload.Subject)
	assert.Equal(t, "alice", payload.Username)
	assert.Equal(t, models.RoleAdmin, payload.Role)

	payload, err = f.tokens.Verify(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, utils.TokenTypeRefresh, payload.Type)
	assert.Equal(t, user.ID, payload.Subject)

	valid, err := f.store.IsRefreshTokenValid(ctx, utils.HashToken(result.RefreshToken), f.clock.Now())
	require.NoError(t, err)
	assert.True(t, valid)

	stored, err := f.store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)

	assert.Contains(t, f.events.Types(), EventUserLogin)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	ctx := context.Background()
	f.createUser(t, "alice", "s3cret!", models.RoleAdmin)

	_, errUnknown := f.auth.Login(ctx, "mallory", "s3cret!", RefreshTokenMeta{})
	_, errWrong := f.auth.Login(ctx, "alice", "wrong-password", RefreshTokenMeta{})

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_EnvAdminWithEmptyStore(t *testing.T) {
	f := newAuthFixture(t, config.AdminConfig{Username: "root", Password: "bootstrap-pass"})
	ctx := context.Background()

	result, err := f.auth.Login(ctx, "root", "bootstrap-pass", RefreshTokenMeta{})
	require.NoError(t, err)
	assert.True(t, result.User.IsEnvAdmin())
	assert.Equal(t, EnvAdminID, result.User.ID)
	assert.Equal(t, models.RoleAdmin, result.User.Role)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "env admin must never be stored")
	require.NoError(t, f.db.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.Zero(t, count)

	principal, err := f.auth.Authenticate(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, principal.IsEnvAdmin())
	assert.NoError(t, f.auth.Authorize(principal))

	refreshed, err := f.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestLogin_EnvAdminBcryptPassword(t *testing.T) {
	hash, err := utils.HashPassword("hashed-pass")
	require.NoError(t, err)
	f := newAuthFixture(t, config.AdminConfig{Username: "root", Password: hash})

	_, err = f.auth.Login(context.Background(), "root", "hashed-pass", RefreshTokenMeta{})
	require.NoError(t, err)

	_, err = f.auth.Login(context.Background(), "root", hash, RefreshTokenMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_EnvAdminWrongPasswordFallsThroughToStore(t *testing.T) {
	f := newAuthFixture(t, config.AdminConfig{Username: "root", Password: "bootstrap-pass"})

	_, err := f.auth.Login(context.Background(), "root", "nope", RefreshTokenMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	f.createUser(t, "root", "stored-root-pass", models.RoleUser)
	result, err := f.auth.Login(context.Background(), "root", "stored-root-pass", RefreshTokenMeta{})
	require.NoError(t, err)
	assert.False(t, result.User.IsEnvAdmin())
}

// countComparisons swaps checkPassword for a counting wrapper.
func countComparisons(t *testing.T) *int {
	t.Helper()
	var n int
	orig := checkPassword
	checkPassword = func(password, hash string) bool {
		n++
		return orig(password, hash)
	}
	t.Cleanup(func() { checkPassword = orig })
	return &n
}

func TestLogin_FailureCostsOneComparison(t *testing.T) {
	hashed, err := utils.HashPassword("bootstrap-pass")
	require.NoError(t, err)

	tests := []struct {
		name     string
		admin    config.AdminConfig
		username string
	}{
		{"unknown user", noAdmin, "mallory"},
		{"wrong stored password", noAdmin, "alice"},
		{"env admin hashed password", config.AdminConfig{Username: "root", Password: hashed}, "root"},
		{"env admin plaintext password", config.AdminConfig{Username: "root", Password: "bootstrap-pass"}, "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, tt.admin)
			f.createUser(t, "alice", "s3cret!", models.RoleAdmin)
			compared := countComparisons(t)

			_, err := f.auth.Login(context.Background(), tt.username, "wrong-password", RefreshTokenMeta{})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, 1, *compared)
		})
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	f.createUser(t, "alice", "s3cret!", models.RoleAdmin)
	result, err := f.auth.Login(context.Background(), "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)

	_, err = f.auth.Refresh(context.Background(), result.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.Authenticate(result.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	f.createUser(t, "alice", "s3cret!", models.RoleAdmin)
	result, err := f.auth.Login(context.Background(), "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)

	f.clock.Advance(utils.DefaultRefreshTTL + time.Second)

	_, err = f.auth.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.Authenticate(result.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_ForeignSecret(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	other := utils.NewTokenService([]byte("another-secret"))
	token, err := other.IssueRefresh(1)
	require.NoError(t, err)

	_, err = f.auth.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_ReReadsRole(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	user := f.createUser(t, "alice", "s3cret!", models.RoleAdmin)
	result, err := f.auth.Login(context.Background(), "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleUser).Error)

	refreshed, err := f.auth.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	payload, err := f.tokens.Verify(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, payload.Role)
}

func TestRefresh_DeletedUser(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	user := f.createUser(t, "alice", "s3cret!", models.RoleAdmin)
	result, err := f.auth.Login(context.Background(), "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(context.Background(), user.ID, nil))

	_, err = f.auth.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefresh_EnvAdminNoLongerConfigured(t *testing.T) {
	f := newAuthFixture(t, config.AdminConfig{Username: "root", Password: "bootstrap-pass"})
	result, err := f.auth.Login(context.Background(), "root", "bootstrap-pass", RefreshTokenMeta{})
	require.NoError(t, err)

	unconfigured := NewAuthService(f.store, f.tokens, noAdmin, nil)

	_, err = unconfigured.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = unconfigured.Authenticate(result.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_RevokesOnlyThatToken(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	ctx := context.Background()
	f.createUser(t, "alice", "s3cret!", models.RoleAdmin)

	first, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	f.auth.Logout(ctx, first.RefreshToken)

	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)

	assert.Contains(t, f.events.Types(), EventUserLogout)
}

func TestLogout_IgnoresUnknownAndEmptyTokens(t *testing.T) {
	f := newAuthFixture(t, noAdmin)

	f.auth.Logout(context.Background(), "")
	f.auth.Logout(context.Background(), "not-a-token")

	assert.NotContains(t, f.events.Types(), EventUserLogout)
}

func TestAuthorize(t *testing.T) {
	f := newAuthFixture(t, noAdmin)

	tests := []struct {
		name      string
		principal *Principal
		want      error
	}{
		{"nil principal", nil, ErrUnauthorized},
		{"admin", &Principal{ID: 1, Role: models.RoleAdmin, Source: PrincipalStoredUser}, nil},
		{"user", &Principal{ID: 2, Role: models.RoleUser, Source: PrincipalStoredUser}, ErrForbidden},
		{"env admin", &Principal{ID: EnvAdminID, Source: PrincipalEnvAdmin}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.auth.Authorize(tt.principal)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

// alice logs in, creates a user, logs out, and her refresh token stops working.
func TestScenario_AdminSessionLifecycle(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	ctx := context.Background()
	f.createUser(t, "alice", "s3cret!", models.RoleAdmin)

	login, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)

	principal, err := f.auth.Authenticate(login.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.auth.Authorize(principal))

	created, err := f.users.Create(ctx, &CreateUserRequest{Username: "bob", Password: "hunter22", Role: models.RoleUser}, principal)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, created.Role)

	f.auth.Logout(ctx, login.RefreshToken)
	_, err = f.auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

// bob is a plain user: authenticated but not authorized for admin actions.
func TestScenario_UserIsForbidden(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	f.createUser(t, "bob", "hunter22", models.RoleUser)

	login, err := f.auth.Login(context.Background(), "bob", "hunter22", RefreshTokenMeta{})
	require.NoError(t, err)

	principal, err := f.auth.Authenticate(login.AccessToken)
	require.NoError(t, err)
	assert.ErrorIs(t, f.auth.Authorize(principal), ErrForbidden)
}

func TestRevokeAllForUser(t *testing.T) {
	f := newAuthFixture(t, noAdmin)
	ctx := context.Background()
	user := f.createUser(t, "alice", "s3cret!", models.RoleAdmin)

	first, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)

	revoked, err := f.auth.RevokeAllForUser(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revoked)

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := f.auth.Refresh(ctx, token)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	}

	_, err = f.auth.RevokeAllForUser(ctx, EnvAdminID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.auth.RevokeAllForUser(ctx, 999, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t, config.AdminConfig{Username: "root", Password: "bootstrap-pass"})
	ctx := context.Background()
	f.createUser(t, "alice", "s3cret!", models.RoleAdmin)

	login, err := f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	require.NoError(t, err)
	principal, err := f.auth.Authenticate(login.AccessToken)
	require.NoError(t, err)

	err = f.auth.ChangePassword(ctx, principal, "wrong", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.auth.ChangePassword(ctx, principal, "s3cret!", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = f.auth.ChangePassword(ctx, principal, "s3cret!", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.auth.ChangePassword(ctx, principal, "s3cret!", "new-password"))

	_, err = f.auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.auth.Login(ctx, "alice", "s3cret!", RefreshTokenMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "alice", "new-password", RefreshTokenMeta{})
	assert.NoError(t, err)

	env := &Principal{ID: EnvAdminID, Username: "root", Role: models.RoleAdmin, Source: PrincipalEnvAdmin}
	err = f.auth.ChangePassword(ctx, env, "bootstrap-pass", "whatever-else")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
