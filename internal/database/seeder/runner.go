package seeder

import (
	"context"
	"fmt"

	"skillstack/internal/database"
)

type Runner struct {
	Seeders []Seeder
}

// Run executes every seeder in order and returns the rows written per seeder.
func (r Runner) Run(ctx context.Context, db database.DB) (map[string]int, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}
	written := make(map[string]int, len(r.Seeders))
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		n, err := s.Run(ctx, db)
		if err != nil {
			return written, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		written[s.Name()] = n
	}
	return written, nil
}
