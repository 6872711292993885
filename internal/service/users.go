package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Vaibhav-crux/users-assignment/internal/domain/user"
	"github.com/Vaibhav-crux/users-assignment/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the document-store capability the service needs. The Mongo
// repo is the real implementation; the memory repo stands in for tests.
type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	UpdateFields(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	store UserStore
	log   *slog.Logger
	hash  func(plain string) (string, error)
}

func NewUserService(store UserStore, log *slog.Logger) *UserService {
	return &UserService{
		store: store,
		log:   log,
		hash:  security.HashPassword,
	}
}

// WithHasher swaps the password hash function. Tests use it to avoid paying
// the bcrypt cost on every case.
func (s *UserService) WithHasher(hash func(string) (string, error)) *UserService {
	s.hash = hash
	return s
}

func (s *UserService) List(ctx context.Context) ([]user.Public, error) {
	users, err := s.store.List(ctx)

	if err != nil {
		s.log.ErrorContext(ctx, "list users failed", "err", err)
		return nil, err
	}

	out := make([]user.Public, 0, len(users))

	for _, u := range users {
		out = append(out, u.Sanitized())
	}

	s.log.DebugContext(ctx, "listed users", "count", len(out))

	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (user.Public, error) {
	u, err := s.store.GetByID(ctx, id)

	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.log.ErrorContext(ctx, "get user failed", "user_id", id, "err", err)
		}

		return user.Public{}, err
	}

	return u.Sanitized(), nil
}

func (s *UserService) Create(ctx context.Context, req user.CreateUserRequest) (user.Public, error) {
	// empty string counts as missing
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return user.Public{}, &user.ValidationError{Reason: "Name, email, and password are required"}
	}

	// pre-check for a friendly error; the unique index is the real guarantee
	_, err := s.store.GetByEmail(ctx, req.Email)

	if err == nil {
		s.log.WarnContext(ctx, "user creation rejected, email taken", "email", req.Email)
		return user.Public{}, user.ErrEmailExists
	}

	if !errors.Is(err, user.ErrNotFound) {
		s.log.ErrorContext(ctx, "email lookup failed", "err", err)
		return user.Public{}, err
	}

	hash, err := s.hash(req.Password)

	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return user.Public{}, &user.ValidationError{Reason: "Password is too long"}
		}

		s.log.ErrorContext(ctx, "password hashing failed", "err", err)
		return user.Public{}, err
	}

	created, err := s.store.Create(ctx, user.New(req.Name, req.Email, hash))

	if err != nil {
		if !errors.Is(err, user.ErrEmailExists) {
			s.log.ErrorContext(ctx, "create user failed", "err", err)
		}

		return user.Public{}, err
	}

	s.log.InfoContext(ctx, "user created", "user_id", created.ID)

	return created.Sanitized(), nil
}

func (s *UserService) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error) {
	current, err := s.store.GetByID(ctx, id)

	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.log.ErrorContext(ctx, "update lookup failed", "user_id", id, "err", err)
		}

		return user.Public{}, err
	}

	// re-validate uniqueness only when the email actually changes
	if req.Email != nil && *req.Email != "" && *req.Email != current.Email {
		_, err = s.store.GetByEmail(ctx, *req.Email)

		if err == nil {
			s.log.WarnContext(ctx, "user update rejected, email taken", "user_id", id)
			return user.Public{}, user.ErrEmailInUse
		}

		if !errors.Is(err, user.ErrNotFound) {
			s.log.ErrorContext(ctx, "email lookup failed", "err", err)
			return user.Public{}, err
		}
	}

	updated, err := s.store.UpdateFields(ctx, id, req)

	if err != nil {
		if !errors.Is(err, user.ErrNotFound) && !errors.Is(err, user.ErrEmailInUse) {
			s.log.ErrorContext(ctx, "update user failed", "user_id", id, "err", err)
		}

		return user.Public{}, err
	}

	s.log.InfoContext(ctx, "user updated", "user_id", id)

	return updated.Sanitized(), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)

	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.log.ErrorContext(ctx, "delete user failed", "user_id", id, "err", err)
		}

		return err
	}

	s.log.InfoContext(ctx, "user deleted", "user_id", id)

	return nil
}
