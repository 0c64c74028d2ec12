package seeder

import (
	"context"
	"fmt"

	"skillstack/internal/database"
)

// SampleSkillsSeeder fills an empty skills table with a handful of demo
// records. A table that already holds rows is left untouched.
type SampleSkillsSeeder struct{}

func (SampleSkillsSeeder) Name() string { return "sample_skills" }

type sampleSkill struct {
	Name         string
	ResourceType string
	Platform     string
	Progress     string
	Hours        float64
	Difficulty   int
	Notes        string
}

var sampleSkills = []sampleSkill{
	{Name: "Go", ResourceType: "Course", Platform: "Udemy", Progress: "in-progress", Hours: 12.5, Difficulty: 3, Notes: "Concurrency patterns, channels and context."},
	{Name: "PostgreSQL", ResourceType: "Book", Platform: "O'Reilly", Progress: "completed", Hours: 20, Difficulty: 2, Notes: "Indexes, EXPLAIN and window functions."},
	{Name: "Docker", ResourceType: "Video", Platform: "YouTube", Progress: "started", Hours: 3, Difficulty: 2},
	{Name: "Kubernetes", ResourceType: "Course", Platform: "Coursera", Progress: "started", Hours: 1.5, Difficulty: 4, Notes: "Pods, deployments, services."},
	{Name: "React", ResourceType: "Tutorial", Platform: "freeCodeCamp", Progress: "completed", Hours: 15, Difficulty: 3},
}

func (SampleSkillsSeeder) Run(ctx context.Context, db database.DB) (int, error) {
	if err := EnsureTableColumns(ctx, db, "skills",
		"id", "skill_name", "resource_type", "platform", "progress", "hours_spent", "difficulty", "notes",
	); err != nil {
		return 0, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var existing int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	for _, it := range sampleSkills {
		var notes *string
		if it.Notes != "" {
			n := it.Notes
			notes = &n
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO skills (skill_name, resource_type, platform, progress, hours_spent, difficulty, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.Name, it.ResourceType, it.Platform, it.Progress, it.Hours, it.Difficulty, notes,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(sampleSkills), nil
}
