package services

import (
	"context"
	"unicode/utf8"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/utils"
)

// UserService manages stored admin back-office accounts.
type UserService struct {
	store  CredentialStore
	events EventPublisher
}

func NewUserService(store CredentialStore, events EventPublisher) *UserService {
	if events == nil {
		events = NopPublisher{}
	}
	return &UserService{store: store, events: events}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks field bounds and defaults Role to admin.
func (r *CreateUserRequest) Validate() error {
	if n := utf8.RuneCountInString(r.Username); n < 1 || n > 50 {
		return invalid("username", "must be between 1 and 50 characters")
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = models.RoleAdmin
	}
	if r.Role != models.RoleAdmin && r.Role != models.RoleUser {
		return invalid("role", "must be 'admin' or 'user'")
	}
	return nil
}

func validatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < 6 || n > 100 {
		return invalid("password", "must be between 6 and 100 characters")
	}
	if len(password) > utils.MaxPasswordBytes {
		return invalid("password", "must not exceed 72 bytes")
	}
	return nil
}

// List returns all stored users, oldest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Create validates req, hashes the password and stores the user.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest, actor *Principal) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(ctx, req.Username, hash, req.Role)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, AuthEvent{Type: EventUserCreated, UserID: user.ID, Username: user.Username, ActorID: actorID(actor)})
	return user, nil
}

// Delete removes a stored user. The bootstrap admin (id 0) cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id uint, actor *Principal) error {
	if id == EnvAdminID {
		return ErrCannotDelete
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	publishEvent(ctx, s.events, AuthEvent{Type: EventUserDeleted, UserID: id, ActorID: actorID(actor)})
	return nil
}
