package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"skillstack/internal/config"
	"skillstack/internal/database"
	"skillstack/internal/database/migration"
	dbpostgres "skillstack/internal/database/postgres"
	"skillstack/internal/delivery/http/handler"
	"skillstack/internal/delivery/http/middleware"
	"skillstack/internal/delivery/http/routes"
	"skillstack/internal/repository"
	"skillstack/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type skillItem struct {
	ID           int64   `json:"id"`
	SkillName    string  `json:"skill_name"`
	ResourceType string  `json:"resource_type"`
	Platform     string  `json:"platform"`
	Progress     *string `json:"progress"`
	HoursSpent   float64 `json:"hours_spent"`
	Difficulty   int     `json:"difficulty"`
	Notes        *string `json:"notes"`
}

func TestIntegration_Postgres_SkillLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	if err := (migration.Runner{}).Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// A second run must be a no-op.
	if err := (migration.Runner{}).Run(ctx, db); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	app := newTestFiberApp(db)

	before := distribution(t, app)

	created := createSkill(t, app, `{"skill_name":"Integration Go","resource_type":"Course","platform":"Udemy","notes":"pgx"}`)
	defer func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM skills WHERE id = $1`, created.ID)
	}()

	if created.Progress == nil || *created.Progress != "started" {
		t.Fatalf("create: expected default progress, got %v", created.Progress)
	}
	if created.Difficulty != 1 || created.HoursSpent != 0 {
		t.Fatalf("create: unexpected defaults %+v", created)
	}

	status, body := call(t, app, http.MethodPut, "/skills/"+itoa(created.ID), `{"progress":"completed","hours_spent":4.5,"notes":null}`)
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", status, body)
	}
	var updated skillItem
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("update: decode: %v", err)
	}
	if updated.Progress == nil || *updated.Progress != "completed" || updated.HoursSpent != 4.5 || updated.Notes != nil {
		t.Fatalf("update: unexpected record %+v", updated)
	}

	after := distribution(t, app)
	if after["completed"] != before["completed"]+1 {
		t.Fatalf("distribution: expected completed=%d, got %d", before["completed"]+1, after["completed"])
	}

	status, _ = call(t, app, http.MethodDelete, "/skills/"+itoa(created.ID), "")
	if status != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", status)
	}
	status, _ = call(t, app, http.MethodDelete, "/skills/"+itoa(created.ID), "")
	if status != http.StatusNotFound {
		t.Fatalf("delete again: expected 404, got %d", status)
	}

	again := createSkill(t, app, `{"skill_name":"Integration Rust","resource_type":"Book","platform":"No Starch"}`)
	defer func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM skills WHERE id = $1`, again.ID)
	}()
	if again.ID <= created.ID {
		t.Fatalf("ids must not be reused: got %d after %d", again.ID, created.ID)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("SKILLSTACK_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("SKILLSTACK_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("SKILLSTACK_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("SKILLSTACK_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("SKILLSTACK_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("SKILLSTACK_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set SKILLSTACK_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		Driver:     config.DriverPostgres,
		DBHost:     host,
		DBPort:     stringsOrDefault(port, "5432"),
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  stringsOrDefault(ssl, "disable"),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return db
}

func newTestFiberApp(db database.DB) *fiber.App {
	logger := log.New(io.Discard, "", 0)
	skills := usecase.NewSkillUsecase(repository.NewSQLSkillRepository(db), nil, nil, logger)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	(&routes.Registry{
		Health: handler.NewHealthHandler(db, nil),
		Skills: handler.NewSkillHandler(skills),
	}).Register(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("%s %s: read body: %v", method, path, err)
	}
	return resp.StatusCode, b
}

func createSkill(t *testing.T, app *fiber.App, body string) skillItem {
	t.Helper()
	status, b := call(t, app, http.MethodPost, "/skills", body)
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", status, b)
	}
	var out skillItem
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("create: decode: %v", err)
	}
	return out
}

func distribution(t *testing.T, app *fiber.App) map[string]int {
	t.Helper()
	status, b := call(t, app, http.MethodGet, "/progress-distribution", "")
	if status != http.StatusOK {
		t.Fatalf("distribution: expected 200, got %d: %s", status, b)
	}
	out := map[string]int{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("distribution: decode: %v", err)
	}
	return out
}

func stringsOrDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
