package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adboard/adboard/internal/auth"
	"github.com/adboard/adboard/internal/cache"
	"github.com/adboard/adboard/internal/metrics"
	"github.com/adboard/adboard/internal/model"
	"github.com/adboard/adboard/internal/repository"
	"github.com/adboard/adboard/internal/session"
)

// UserService handles user business logic.
type UserService struct {
	hasher  auth.Hasher
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger

	// dummyHash is verified against when a login names an unknown user, so
	// both failure paths cost one hash comparison.
	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new UserService. userCache and recorder may be nil.
func NewUserService(hasher auth.Hasher, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if userCache == nil {
		userCache = noopCache{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		hasher:  hasher,
		cache:   userCache,
		metrics: recorder,
		logger:  loggerOrDefault(logger),
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name     string
	Password string
}

// Create hashes the password and inserts a new user.
func (s *UserService) Create(ctx context.Context, store session.Store, input CreateUserInput) (*model.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		PasswordHash: hash,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNameExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncRecordCreated(metrics.EntityUser)

	return user, nil
}

// Get returns a user by id, consulting the read cache first.
// Users returned from the cache carry no password hash.
func (s *UserService) Get(ctx context.Context, store session.Store, id int64) (*model.User, error) {
	cached, gen, err := s.cache.GetUser(ctx, id)
	miss := errors.Is(err, cache.ErrCacheMiss)
	switch {
	case err == nil:
		s.metrics.IncCacheHit(metrics.EntityUser)
		return cached, nil
	case miss:
		s.metrics.IncCacheMiss(metrics.EntityUser)
	case !errors.Is(err, errNoCache):
		s.logger.Warn("user cache read failed", slog.Int64("user_id", id), slog.String("error", err.Error()))
	}

	user, err := s.load(ctx, store, id)
	if err != nil {
		return nil, err
	}

	if !miss {
		return user, nil
	}
	if err := s.cache.SetUser(ctx, user, gen); err != nil {
		s.logger.Warn("user cache write failed", slog.Int64("user_id", id), slog.String("error", err.Error()))
	}

	return user, nil
}

// UpdateUserInput defines input for updating a user. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Password *string
}

// Update applies the present fields to an existing user.
func (s *UserService) Update(ctx context.Context, store session.Store, id int64, input UpdateUserInput) (*model.User, error) {
	patch := model.UserPatch{Name: input.Name}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	user, err := s.load(ctx, store, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return user, nil
	}
	patch.Apply(user)

	if err := store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNameExists):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.metrics.IncRecordUpdated(metrics.EntityUser)
	s.invalidate(ctx, id)

	return user, nil
}

// Delete removes a user. Users that still own ads are refused with ErrUserHasAds.
func (s *UserService) Delete(ctx context.Context, store session.Store, id int64) error {
	if _, err := s.load(ctx, store, id); err != nil {
		return err
	}

	if err := store.DeleteUser(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserHasAds):
			return ErrUserHasAds
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.metrics.IncRecordDeleted(metrics.EntityUser)
	s.invalidate(ctx, id)

	return nil
}

// Authenticate checks a name and password pair and returns the matching user.
// Unknown names and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, store session.Store, name, password string) (*model.User, error) {
	user, err := store.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if hash := s.unknownUserHash(); hash != "" {
				_, _ = auth.VerifyPassword(password, hash)
			}
			s.metrics.IncLoginAttempt(false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for user %d: %w", user.ID, err)
	}
	s.metrics.IncLoginAttempt(ok)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("adboard-unknown-user")
		if err != nil {
			s.logger.Warn("failed to prepare unknown user hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *UserService) load(ctx context.Context, store session.Store, id int64) (*model.User, error) {
	user, err := store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.DeleteUser(ctx, id); err != nil {
		s.logger.Warn("user cache invalidation failed", slog.Int64("user_id", id), slog.String("error", err.Error()))
	}
}
