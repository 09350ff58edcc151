// Package memory is an in-process implementation of session.Opener.
//
// It enforces the same constraints as the PostgreSQL schema: unique user
// names, ads referencing an existing owner, and no deletion of users that
// still own ads. It is safe for concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adboard/adboard/internal/model"
	"github.com/adboard/adboard/internal/repository"
	"github.com/adboard/adboard/internal/session"
)

// Store holds users and ads in maps keyed by id.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]model.User
	ads        map[int64]model.Ad
	nextUserID int64
	nextAdID   int64
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the source of server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		users: make(map[int64]model.User),
		ads:   make(map[int64]model.Ad),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a session backed by the shared maps.
func (s *Store) Open(ctx context.Context) (session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Session{Store: s}, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Session is a no-op wrapper; the store itself is the unit of work.
type Session struct {
	*Store
}

// Close is a no-op.
func (s *Session) Close() {}

func (s *Store) timestamp() time.Time {
	// Match the microsecond precision of PostgreSQL timestamps.
	return s.now().UTC().Truncate(time.Microsecond)
}

// CreateUser inserts user and assigns ID and RegistrationTime.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(user.Name, 0) {
		return repository.ErrUserNameExists
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.RegistrationTime = s.timestamp()
	s.users[user.ID] = *user
	return nil
}

// GetUser returns a copy of the user with the given id.
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// GetUserByName returns a copy of the user with the given name.
func (s *Store) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UpdateUser overwrites name and password hash. RegistrationTime is kept.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if s.nameTaken(user.Name, user.ID) {
		return repository.ErrUserNameExists
	}

	existing.Name = user.Name
	existing.PasswordHash = user.PasswordHash
	s.users[user.ID] = existing
	user.RegistrationTime = existing.RegistrationTime
	return nil
}

// DeleteUser removes a user that owns no ads.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for _, ad := range s.ads {
		if ad.OwnerID == id {
			return repository.ErrUserHasAds
		}
	}
	delete(s.users, id)
	return nil
}

// CreateAd inserts ad and assigns ID and CreationTime.
func (s *Store) CreateAd(ctx context.Context, ad *model.Ad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ad.OwnerID]; !ok {
		return repository.ErrOwnerNotFound
	}

	s.nextAdID++
	ad.ID = s.nextAdID
	ad.CreationTime = s.timestamp()
	s.ads[ad.ID] = *ad
	return nil
}

// GetAd returns a copy of the ad with the given id.
func (s *Store) GetAd(ctx context.Context, id int64) (*model.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, ok := s.ads[id]
	if !ok {
		return nil, repository.ErrAdNotFound
	}
	return &ad, nil
}

// UpdateAd overwrites the mutable ad columns. CreationTime is kept.
func (s *Store) UpdateAd(ctx context.Context, ad *model.Ad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ads[ad.ID]
	if !ok {
		return repository.ErrAdNotFound
	}
	if _, ok := s.users[ad.OwnerID]; !ok {
		return repository.ErrOwnerNotFound
	}

	existing.Header = ad.Header
	existing.Text = ad.Text
	existing.Price = ad.Price
	existing.OwnerID = ad.OwnerID
	s.ads[ad.ID] = existing
	ad.CreationTime = existing.CreationTime
	return nil
}

// DeleteAd removes an ad.
func (s *Store) DeleteAd(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ads[id]; !ok {
		return repository.ErrAdNotFound
	}
	delete(s.ads, id)
	return nil
}

// nameTaken must be called with s.mu held.
func (s *Store) nameTaken(name string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Name == name {
			return true
		}
	}
	return false
}
