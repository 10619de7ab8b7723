package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// Postgres persists registrations in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE registrations (
//	    address       UUID PRIMARY KEY,
//	    referrer      UUID,
//	    registered_at TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Find(ctx context.Context, address id.AccountID) (*models.Registration, error) {
	var (
		addr         string
		referrer     sql.NullString
		registeredAt time.Time
		updatedAt    time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT address, referrer, registered_at, updated_at FROM registrations WHERE address = $1`,
		address.String(),
	).Scan(&addr, &referrer, &registeredAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return scanRegistration(addr, referrer, registeredAt, updatedAt)
}

func (s *Postgres) Put(ctx context.Context, record *models.Registration) error {
	var referrer sql.NullString
	if record.Referrer != nil {
		referrer = sql.NullString{String: record.Referrer.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registrations (address, referrer, registered_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE SET
			referrer = EXCLUDED.referrer,
			updated_at = EXCLUDED.updated_at
	`, record.Address.String(), referrer, record.RegisteredAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put registration: %w", err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, address id.AccountID) error {
	// Deleting an absent row is a no-op, matching the store contract.
	_, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE address = $1`, address.String())
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func scanRegistration(addr string, referrer sql.NullString, registeredAt, updatedAt time.Time) (*models.Registration, error) {
	address, err := id.ParseAccountID(addr)
	if err != nil {
		return nil, fmt.Errorf("stored address is invalid: %w", err)
	}
	record := &models.Registration{
		Address:      address,
		RegisteredAt: registeredAt,
		UpdatedAt:    updatedAt,
	}
	if referrer.Valid {
		ref, err := id.ParseAccountID(referrer.String)
		if err != nil {
			return nil, fmt.Errorf("stored referrer is invalid: %w", err)
		}
		record.Referrer = &ref
	}
	return record, nil
}
