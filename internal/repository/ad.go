package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adboard/adboard/internal/model"
)

// Common errors for ad repository operations.
var (
	ErrAdNotFound    = errors.New("ad not found")
	ErrAdExists      = errors.New("ad already exists")
	ErrOwnerNotFound = errors.New("owner does not exist")
)

// CreateAd inserts a new ad and fills in the server-assigned fields.
func (s *Session) CreateAd(ctx context.Context, ad *model.Ad) error {
	query := `
		INSERT INTO ads (header, text, price, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, creation_time
	`

	err := s.conn.QueryRow(ctx, query,
		ad.Header,
		ad.Text,
		ad.Price,
		ad.OwnerID,
	).Scan(&ad.ID, &ad.CreationTime)

	if err != nil {
		return classifyAdError("create", err)
	}

	return nil
}

// GetAd retrieves an ad by ID.
func (s *Session) GetAd(ctx context.Context, id int64) (*model.Ad, error) {
	query := `
		SELECT id, header, text, price, creation_time, owner_id
		FROM ads
		WHERE id = $1
	`

	var ad model.Ad
	err := s.conn.QueryRow(ctx, query, id).Scan(
		&ad.ID,
		&ad.Header,
		&ad.Text,
		&ad.Price,
		&ad.CreationTime,
		&ad.OwnerID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdNotFound
		}
		return nil, fmt.Errorf("failed to get ad: %w", err)
	}

	return &ad, nil
}

// UpdateAd writes the mutable columns of ad. creation_time is never written.
func (s *Session) UpdateAd(ctx context.Context, ad *model.Ad) error {
	query := `
		UPDATE ads
		SET header = $2, text = $3, price = $4, owner_id = $5
		WHERE id = $1
	`

	tag, err := s.conn.Exec(ctx, query, ad.ID, ad.Header, ad.Text, ad.Price, ad.OwnerID)
	if err != nil {
		return classifyAdError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdNotFound
	}

	return nil
}

// DeleteAd removes an ad.
func (s *Session) DeleteAd(ctx context.Context, id int64) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdNotFound
	}

	return nil
}

func classifyAdError(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return ErrOwnerNotFound
	case isUniqueViolation(err):
		return ErrAdExists
	default:
		return fmt.Errorf("failed to %s ad: %w", op, err)
	}
}
