package config

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

// Postgres persists the configuration as a single fixed-key row.
//
// Schema:
//
//	CREATE TABLE service_config (
//	    singleton         BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
//	    admin             UUID NOT NULL,
//	    deadline          TIMESTAMPTZ NOT NULL,
//	    deadline_enforced BOOLEAN NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Read(ctx context.Context) (models.Config, error) {
	var (
		admin    string
		deadline time.Time
		enforced bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT admin, deadline, deadline_enforced FROM service_config WHERE singleton`,
	).Scan(&admin, &deadline, &enforced)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Config{}, sentinel.ErrNotFound
		}
		return models.Config{}, fmt.Errorf("read config: %w", err)
	}
	adminID, err := id.ParseAccountID(admin)
	if err != nil {
		return models.Config{}, fmt.Errorf("stored admin is invalid: %w", err)
	}
	return models.Config{Admin: adminID, Deadline: deadline, DeadlineEnforced: enforced}, nil
}

func (s *Postgres) Write(ctx context.Context, cfg models.Config) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_config (singleton, admin, deadline, deadline_enforced)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (singleton) DO UPDATE SET
			admin = EXCLUDED.admin,
			deadline = EXCLUDED.deadline,
			deadline_enforced = EXCLUDED.deadline_enforced
	`, cfg.Admin.String(), cfg.Deadline, cfg.DeadlineEnforced)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
