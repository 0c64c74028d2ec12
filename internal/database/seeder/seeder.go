package seeder

import (
	"context"

	"skillstack/internal/database"
)

type Seeder interface {
	Name() string
	// Run inserts the seeder's rows and reports how many were written.
	Run(ctx context.Context, db database.DB) (int, error)
}
