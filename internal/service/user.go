package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/useraccounts/useraccounts-go/internal/crypto"
	"github.com/useraccounts/useraccounts-go/internal/model"
	"github.com/useraccounts/useraccounts-go/internal/repository"
)

var (
	ErrEmailTaken = errors.New("email already taken")
	ErrForbidden  = errors.New("cannot modify another user's account")
)

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, id int64, name, surname *string, passwordHash *model.Secret) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CredentialRefresher is told when stored credentials change.
type CredentialRefresher interface {
	RefreshCredentials(ctx context.Context, email string) error
}

// UserService handles account management business logic.
type UserService struct {
	repo   UserStore
	creds  CredentialRefresher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo UserStore, creds CredentialRefresher, logger *slog.Logger) *UserService {
	logger = logger.With("component", "users")
	logger.Debug("initialized")
	return &UserService{repo: repo, creds: creds, logger: logger}
}

// Create registers a new account and returns its id.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (int64, error) {
	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	user := &model.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: model.Secret(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}

	s.logger.Info("user created", "id", user.ID)
	return user.ID, nil
}

// List returns the first page of users.
func (s *UserService) List(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]model.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, users[i].ToResponse())
	}
	return resp, nil
}

// FindByID returns the user with the given id.
func (s *UserService) FindByID(ctx context.Context, id int64) (model.UserResponse, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

// Update changes the supplied fields of account id on behalf of requesterID,
// who must own it, and returns the rows affected. A nil password keeps the
// current hash.
func (s *UserService) Update(ctx context.Context, id, requesterID int64, req model.UpdateUserRequest) (int64, error) {
	if id != requesterID {
		return 0, ErrForbidden
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return 0, err
	}

	var hash *model.Secret
	if req.Password != nil {
		h, err := crypto.HashPassword(*req.Password)
		if err != nil {
			return 0, err
		}
		secret := model.Secret(h)
		hash = &secret
	}

	affected, err := s.repo.Update(ctx, id, req.Name, req.Surname, hash)
	if err != nil {
		return 0, err
	}

	if err := s.creds.RefreshCredentials(ctx, user.Email); err != nil {
		s.logger.Error("refreshing cached credentials", "id", id, "error", err)
	}
	return affected, nil
}

// Delete removes the account id on behalf of requesterID, who must own it.
func (s *UserService) Delete(ctx context.Context, id, requesterID int64) (int64, error) {
	if id != requesterID {
		return 0, ErrForbidden
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return 0, err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.creds.RefreshCredentials(ctx, user.Email); err != nil {
		s.logger.Error("refreshing cached credentials", "id", id, "error", err)
	}
	s.logger.Info("user deleted", "id", id)
	return affected, nil
}

func (s *UserService) get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
