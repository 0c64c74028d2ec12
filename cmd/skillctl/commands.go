package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"skillstack/internal/app"
	"skillstack/internal/config"
	"skillstack/internal/database"
	"skillstack/internal/database/seeder"
	"skillstack/internal/delivery/http/dto"
	"skillstack/internal/infrastructure/cache"
	"skillstack/internal/infrastructure/llm"
	"skillstack/internal/pkg/jwt"
	"skillstack/internal/repository"
	"skillstack/internal/usecase"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "skillctl",
		Usage: "inspect and maintain the skills store",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print machine-readable output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "skills",
				Usage:  "list every stored skill",
				Action: listSkills,
			},
			{
				Name:   "distribution",
				Usage:  "print the progress distribution",
				Action: printDistribution,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "insert demo skills into an empty store",
				Action: seed,
			},
			{
				Name:  "token",
				Usage: "mint a bearer token for the write endpoints",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "subject",
						Usage: "token subject",
						Value: "dashboard",
					},
				},
				Action: mintToken,
			},
			{
				Name:      "summarize",
				Usage:     "summarize notes with the configured provider",
				ArgsUsage: "<notes>",
				Action:    summarize,
			},
		},
	}
}

func withRepository(ctx context.Context, fn func(cfg config.Config, db database.DB, repo repository.SkillRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := app.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(cfg, db, repository.NewSQLSkillRepository(db))
}

func listSkills(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	return withRepository(ctx, func(cfg config.Config, db database.DB, repo repository.SkillRepository) error {
		items, err := repo.List(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return writeJSON(out, dto.NewSkillListResponse(items))
		}

		fmt.Fprintf(out, "Database: %s %s\n", db.Driver(), dbLocation(cfg.Database))
		fmt.Fprintf(out, "Total skills: %d\n", len(items))
		for _, s := range items {
			progress := "None"
			if s.Progress != nil {
				progress = *s.Progress
			}
			fmt.Fprintf(out, "ID: %d, Name: %s, Progress: %s\n", s.ID, s.SkillName, progress)
		}
		return nil
	})
}

func printDistribution(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	return withRepository(ctx, func(_ config.Config, _ database.DB, repo repository.SkillRepository) error {
		dist, err := repo.ProgressDistribution(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return writeJSON(out, dist)
		}

		labels := make([]string, 0, len(dist))
		for label := range dist {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(out, "%s\t%d\n", label, dist[label])
		}
		return nil
	})
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	return withRepository(ctx, func(cfg config.Config, db database.DB, _ repository.SkillRepository) error {
		fmt.Fprintf(cmd.Root().Writer, "schema up to date | driver=%s %s\n", db.Driver(), dbLocation(cfg.Database))
		return nil
	})
}

func seed(ctx context.Context, cmd *cli.Command) error {
	return withRepository(ctx, func(cfg config.Config, db database.DB, _ repository.SkillRepository) error {
		redis := cache.NewRedis(cfg.Redis, log.New(cmd.Root().ErrWriter, "", log.LstdFlags))
		defer redis.Close()
		return seedStore(ctx, db, redis, cmd.Root().Writer)
	})
}

// seedStore runs the default seeders and, when rows were written, drops the
// aggregates a running server may have cached.
func seedStore(ctx context.Context, db database.DB, c usecase.Cache, out io.Writer) error {
	written, err := seeder.Runner{Seeders: seeder.Defaults()}.Run(ctx, db)
	if err != nil {
		return err
	}

	total := 0
	for _, s := range seeder.Defaults() {
		fmt.Fprintf(out, "%s\t%d\n", s.Name(), written[s.Name()])
		total += written[s.Name()]
	}
	if total > 0 {
		if err := usecase.InvalidateAggregates(ctx, c); err != nil {
			return fmt.Errorf("invalidate cached aggregates: %w", err)
		}
	}
	return nil
}

func mintToken(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Auth.Enabled() {
		return errors.New("AUTH_JWT_SECRET is not set; write endpoints are open")
	}

	svc := jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.App.AppName, cfg.Auth.TokenTTL)
	token, err := svc.GenerateAccessToken(cmd.String("subject"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, token)
	return nil
}

func summarize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := log.New(cmd.Root().ErrWriter, "", log.LstdFlags)
	provider, err := llm.NewProvider(cfg.Summarizer, logger)
	if err != nil {
		return err
	}
	var sp usecase.SummaryProvider
	if provider != nil {
		sp = provider
	}

	s := usecase.NewSummarizer(sp, usecase.SummarizerOptions{
		Credential: cfg.Summarizer.APIKey,
		Timeout:    cfg.Summarizer.Timeout,
		Logger:     logger,
	})
	summary, err := s.Summarize(ctx, strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, summary)
	return nil
}

func dbLocation(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return fmt.Sprintf("host=%s dbname=%s", cfg.DBHost, cfg.DBName)
	}
	return "path=" + cfg.Path
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
