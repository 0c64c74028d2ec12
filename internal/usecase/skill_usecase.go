package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"skillstack/internal/domain/skill"
	"skillstack/internal/metrics"
	"skillstack/internal/repository"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeNotifier is told about every committed write.
type ChangeNotifier interface {
	NotifySkillsChanged(action string, id int64)
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]skill.Skill, error)
	CreateSkill(ctx context.Context, p skill.Patch) (skill.Skill, error)
	UpdateSkill(ctx context.Context, id int64, p skill.Patch) (skill.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
	ProgressDistribution(ctx context.Context) (skill.Distribution, error)
	Insights(ctx context.Context) (skill.Insights, error)
}

type Skill struct {
	repo     repository.SkillRepository
	cache    Cache
	notifier ChangeNotifier
	log      *log.Logger
}

// NewSkillUsecase wires the store. cache and notifier may be nil.
func NewSkillUsecase(repo repository.SkillRepository, cache Cache, notifier ChangeNotifier, logger *log.Logger) *Skill {
	if logger == nil {
		logger = log.Default()
	}
	return &Skill{repo: repo, cache: cache, notifier: notifier, log: logger}
}

func (u *Skill) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list skills: %v", ErrInternal, err)
	}
	return items, nil
}

func (u *Skill) CreateSkill(ctx context.Context, p skill.Patch) (skill.Skill, error) {
	if p.ID != nil {
		return skill.Skill{}, fmt.Errorf("%w: %s: assigned by the server", ErrInvalidField, skill.FieldID)
	}
	if missing := p.MissingRequired(); len(missing) > 0 {
		return skill.Skill{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	created, err := u.repo.Create(ctx, skill.New(p))
	if err != nil {
		return skill.Skill{}, fmt.Errorf("%w: create skill: %v", ErrInternal, err)
	}

	u.afterWrite(ctx, ActionCreated, created.ID)
	return created, nil
}

func (u *Skill) UpdateSkill(ctx context.Context, id int64, p skill.Patch) (skill.Skill, error) {
	if id <= 0 {
		return skill.Skill{}, ErrSkillNotFound
	}
	if p.ID != nil && *p.ID != id {
		return skill.Skill{}, fmt.Errorf("%w: %s: is immutable", ErrInvalidField, skill.FieldID)
	}
	if err := p.BlankError(); err != nil {
		return skill.Skill{}, fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	updated, err := u.repo.Update(ctx, id, p)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, fmt.Errorf("%w: update skill %d: %v", ErrInternal, id, err)
	}

	if !p.Empty() {
		u.afterWrite(ctx, ActionUpdated, id)
	}
	return updated, nil
}

func (u *Skill) DeleteSkill(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrSkillNotFound
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("%w: delete skill %d: %v", ErrInternal, id, err)
	}

	u.afterWrite(ctx, ActionDeleted, id)
	return nil
}

func (u *Skill) ProgressDistribution(ctx context.Context) (skill.Distribution, error) {
	var cached skill.Distribution
	if u.lookup(ctx, ProgressDistributionCacheKey, "distribution", &cached) {
		return cached, nil
	}

	dist, err := u.repo.ProgressDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: progress distribution: %v", ErrInternal, err)
	}
	u.store(ctx, ProgressDistributionCacheKey, dist)
	return dist, nil
}

func (u *Skill) Insights(ctx context.Context) (skill.Insights, error) {
	var cached skill.Insights
	if u.lookup(ctx, InsightsCacheKey, "insights", &cached) {
		return cached, nil
	}

	in, err := u.repo.Insights(ctx)
	if err != nil {
		return skill.Insights{}, fmt.Errorf("%w: insights: %v", ErrInternal, err)
	}
	u.store(ctx, InsightsCacheKey, in)
	return in, nil
}

func (u *Skill) afterWrite(ctx context.Context, action string, id int64) {
	metrics.SkillMutations.WithLabelValues(action).Inc()

	if err := InvalidateAggregates(ctx, u.cache); err != nil {
		u.log.Printf("skills step=cache_invalidate status=error err=%v", err)
	}
	if u.notifier != nil {
		u.notifier.NotifySkillsChanged(action, id)
	}
}

func (u *Skill) lookup(ctx context.Context, key, family string, out any) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.GetJSON(ctx, key, out)
	if err != nil {
		u.log.Printf("skills step=cache_get key=%s status=error err=%v", key, err)
		return false
	}
	if hit {
		metrics.CacheLookups.WithLabelValues(family, "hit").Inc()
		return true
	}
	metrics.CacheLookups.WithLabelValues(family, "miss").Inc()
	return false
}

func (u *Skill) store(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, 0); err != nil {
		u.log.Printf("skills step=cache_set key=%s status=error err=%v", key, err)
	}
}
