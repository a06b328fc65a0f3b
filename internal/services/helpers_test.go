package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackhellowin/portfolio-api/internal/config"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.Open(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.Migrate(db))
	return db
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AuthEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		types = append(types, ev.Type)
	}
	return types
}

type authFixture struct {
	db     *gorm.DB
	store  *GormCredentialStore
	tokens *utils.TokenService
	clock  *testClock
	events *recordingPublisher
	auth   *AuthService
	users  *UserService
}

func newAuthFixture(t *testing.T, admin config.AdminConfig) *authFixture {
	t.Helper()
	db := newTestDB(t)
	clock := newTestClock()
	tokens := utils.NewTokenService([]byte(testSecret), utils.WithClock(clock.Now))
	store := NewGormCredentialStore(db)
	events := &recordingPublisher{}
	return &authFixture{
		db:     db,
		store:  store,
		tokens: tokens,
		clock:  clock,
		events: events,
		auth:   NewAuthService(store, tokens, admin, events),
		users:  NewUserService(store, events),
	}
}

func (f *authFixture) createUser(t *testing.T, username, password, role string) *models.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &CreateUserRequest{Username: username, Password: password, Role: role}, nil)
	require.NoError(t, err)
	return user
}
