// Package config provides storage backends for the singleton service
// configuration.
package config

import (
	"context"

	"registrar/internal/registration/models"
)

// Store is the configuration persistence contract. Read returns
// sentinel.ErrNotFound only before the configuration has been bootstrapped;
// once seeded it always succeeds. Write is an unconditional replace; the
// service layer owns the admin authorization.
type Store interface {
	Read(ctx context.Context) (models.Config, error)
	Write(ctx context.Context, cfg models.Config) error
}
