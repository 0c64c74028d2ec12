package repository

import (
	"context"
	"errors"

	"skillstack/internal/database"
	"skillstack/internal/domain/skill"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	List(ctx context.Context) ([]skill.Skill, error)
	Get(ctx context.Context, id int64) (skill.Skill, error)
	Create(ctx context.Context, s skill.Skill) (skill.Skill, error)
	// Update applies p to the stored record inside one transaction and
	// returns the result.
	Update(ctx context.Context, id int64, p skill.Patch) (skill.Skill, error)
	Delete(ctx context.Context, id int64) error
	ProgressDistribution(ctx context.Context) (skill.Distribution, error)
	Insights(ctx context.Context) (skill.Insights, error)
}

type SQLSkillRepository struct {
	db database.DB
}

func NewSQLSkillRepository(db database.DB) *SQLSkillRepository {
	return &SQLSkillRepository{db: db}
}

const skillColumns = `id, skill_name, resource_type, platform, progress, hours_spent, difficulty, notes`

type scanner interface {
	Scan(dest ...any) error
}

func scanSkill(row scanner) (skill.Skill, error) {
	var s skill.Skill
	err := row.Scan(&s.ID, &s.SkillName, &s.ResourceType, &s.Platform, &s.Progress, &s.HoursSpent, &s.Difficulty, &s.Notes)
	return s, err
}

func (r *SQLSkillRepository) List(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLSkillRepository) Get(ctx context.Context, id int64) (skill.Skill, error) {
	s, err := scanSkill(r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *SQLSkillRepository) Create(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (skill_name, resource_type, platform, progress, hours_spent, difficulty, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+skillColumns,
		s.SkillName, s.ResourceType, s.Platform, s.Progress, s.HoursSpent, s.Difficulty, s.Notes,
	)
	return scanSkill(row)
}

func (r *SQLSkillRepository) Update(ctx context.Context, id int64, p skill.Patch) (skill.Skill, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return skill.Skill{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	current, err := scanSkill(tx.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}

	current.Apply(p)

	affected, err := tx.Exec(ctx,
		`UPDATE skills
		 SET skill_name = $1, resource_type = $2, platform = $3, progress = $4,
		     hours_spent = $5, difficulty = $6, notes = $7
		 WHERE id = $8`,
		current.SkillName, current.ResourceType, current.Platform, current.Progress,
		current.HoursSpent, current.Difficulty, current.Notes, id,
	)
	if err != nil {
		return skill.Skill{}, err
	}
	if affected == 0 {
		return skill.Skill{}, ErrSkillNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return skill.Skill{}, err
	}
	return current, nil
}

func (r *SQLSkillRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *SQLSkillRepository) ProgressDistribution(ctx context.Context) (skill.Distribution, error) {
	counts, err := r.countBy(ctx, `COALESCE(NULLIF(progress, ''), '`+skill.UnknownProgress+`')`)
	if err != nil {
		return nil, err
	}
	out := make(skill.Distribution, len(counts))
	for _, c := range counts {
		out[c.Label] = c.Count
	}
	return out, nil
}

func (r *SQLSkillRepository) Insights(ctx context.Context) (skill.Insights, error) {
	var in skill.Insights

	row := r.db.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(hours_spent), 0) FROM skills`)
	if err := row.Scan(&in.TotalSkills, &in.TotalHours); err != nil {
		return skill.Insights{}, err
	}

	var err error
	if in.Progress, err = r.ProgressDistribution(ctx); err != nil {
		return skill.Insights{}, err
	}
	if in.ByPlatform, err = r.countBy(ctx, `platform`); err != nil {
		return skill.Insights{}, err
	}
	if in.ByResourceType, err = r.countBy(ctx, `resource_type`); err != nil {
		return skill.Insights{}, err
	}
	if in.ByDifficulty, err = r.countBy(ctx, `CAST(difficulty AS TEXT)`); err != nil {
		return skill.Insights{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, skill_name, hours_spent FROM skills
		 WHERE hours_spent > 0
		 ORDER BY hours_spent DESC, id ASC
		 LIMIT $1`,
		skill.TopByHoursLimit,
	)
	if err != nil {
		return skill.Insights{}, err
	}
	defer rows.Close()

	in.TopByHours = make([]skill.HoursEntry, 0, skill.TopByHoursLimit)
	for rows.Next() {
		var e skill.HoursEntry
		if err := rows.Scan(&e.ID, &e.SkillName, &e.HoursSpent); err != nil {
			return skill.Insights{}, err
		}
		in.TopByHours = append(in.TopByHours, e)
	}
	if err := rows.Err(); err != nil {
		return skill.Insights{}, err
	}
	return in, nil
}

// countBy groups all records by expr, which must be one of the fixed
// expressions above and never caller input.
func (r *SQLSkillRepository) countBy(ctx context.Context, expr string) ([]skill.Count, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expr+` AS label, COUNT(*) AS n FROM skills GROUP BY label ORDER BY n DESC, label ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Count, 0)
	for rows.Next() {
		var c skill.Count
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
