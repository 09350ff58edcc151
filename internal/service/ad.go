package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adboard/adboard/internal/cache"
	"github.com/adboard/adboard/internal/metrics"
	"github.com/adboard/adboard/internal/model"
	"github.com/adboard/adboard/internal/repository"
	"github.com/adboard/adboard/internal/session"
)

// AdService handles ad business logic.
type AdService struct {
	cache   AdCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewAdService creates a new AdService. adCache and recorder may be nil.
func NewAdService(adCache AdCache, recorder metrics.Recorder, logger *slog.Logger) *AdService {
	if adCache == nil {
		adCache = noopCache{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AdService{
		cache:   adCache,
		metrics: recorder,
		logger:  loggerOrDefault(logger),
	}
}

// CreateAdInput defines input for creating an ad.
type CreateAdInput struct {
	Header  string
	Text    string
	Price   int64
	OwnerID int64
}

// Create inserts a new ad.
func (s *AdService) Create(ctx context.Context, store session.Store, input CreateAdInput) (*model.Ad, error) {
	ad := &model.Ad{
		Header:  input.Header,
		Text:    input.Text,
		Price:   input.Price,
		OwnerID: input.OwnerID,
	}

	if err := store.CreateAd(ctx, ad); err != nil {
		return nil, mapAdError("create", err)
	}

	s.metrics.IncRecordCreated(metrics.EntityAd)

	return ad, nil
}

// Get returns an ad by id, consulting the read cache first.
func (s *AdService) Get(ctx context.Context, store session.Store, id int64) (*model.Ad, error) {
	cached, gen, err := s.cache.GetAd(ctx, id)
	miss := errors.Is(err, cache.ErrCacheMiss)
	switch {
	case err == nil:
		s.metrics.IncCacheHit(metrics.EntityAd)
		return cached, nil
	case miss:
		s.metrics.IncCacheMiss(metrics.EntityAd)
	case !errors.Is(err, errNoCache):
		s.logger.Warn("ad cache read failed", slog.Int64("ad_id", id), slog.String("error", err.Error()))
	}

	ad, err := s.load(ctx, store, id)
	if err != nil {
		return nil, err
	}

	if !miss {
		return ad, nil
	}
	if err := s.cache.SetAd(ctx, ad, gen); err != nil {
		s.logger.Warn("ad cache write failed", slog.Int64("ad_id", id), slog.String("error", err.Error()))
	}

	return ad, nil
}

// Update applies patch to an existing ad.
func (s *AdService) Update(ctx context.Context, store session.Store, id int64, patch model.AdPatch) (*model.Ad, error) {
	ad, err := s.load(ctx, store, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return ad, nil
	}
	patch.Apply(ad)

	if err := store.UpdateAd(ctx, ad); err != nil {
		return nil, mapAdError("update", err)
	}

	s.metrics.IncRecordUpdated(metrics.EntityAd)
	s.invalidate(ctx, id)

	return ad, nil
}

// Delete removes an ad.
func (s *AdService) Delete(ctx context.Context, store session.Store, id int64) error {
	if _, err := s.load(ctx, store, id); err != nil {
		return err
	}

	if err := store.DeleteAd(ctx, id); err != nil {
		return mapAdError("delete", err)
	}

	s.metrics.IncRecordDeleted(metrics.EntityAd)
	s.invalidate(ctx, id)

	return nil
}

func (s *AdService) load(ctx context.Context, store session.Store, id int64) (*model.Ad, error) {
	ad, err := store.GetAd(ctx, id)
	if err != nil {
		return nil, mapAdError("get", err)
	}
	return ad, nil
}

func (s *AdService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.DeleteAd(ctx, id); err != nil {
		s.logger.Warn("ad cache invalidation failed", slog.Int64("ad_id", id), slog.String("error", err.Error()))
	}
}

func mapAdError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrAdNotFound):
		return ErrAdNotFound
	case errors.Is(err, repository.ErrOwnerNotFound):
		return ErrOwnerNotFound
	case errors.Is(err, repository.ErrAdExists):
		return ErrAdExists
	default:
		return fmt.Errorf("failed to %s ad: %w", op, err)
	}
}
