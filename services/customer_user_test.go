package services

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"menu-bot/models"
)

// Integration test (requires DB). Skip if TEST_DATABASE_URL is unset or -short.
func TestCustomerLanguages_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("skipping postgres integration test: TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()
	c := NewCustomerLanguages(pool)
	if err := c.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	const uid = int64(-424242)
	cleanup := func() { _, _ = pool.Exec(ctx, `DELETE FROM customer_users WHERE tg_user_id = $1`, uid) }
	cleanup()
	defer cleanup()

	if _, ok, err := c.GetLanguage(ctx, uid); err != nil || ok {
		t.Fatalf("GetLanguage on unknown user = ok %v, err %v", ok, err)
	}
	if err := c.SetLanguage(ctx, uid, models.LangEN); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if err := c.SetLanguage(ctx, uid, models.LangDE); err != nil {
		t.Fatalf("SetLanguage update: %v", err)
	}
	l, ok, err := c.GetLanguage(ctx, uid)
	if err != nil || !ok || l != models.LangDE {
		t.Fatalf("GetLanguage = %q, %v, %v; want de", l, ok, err)
	}
	if err := c.SetLanguage(ctx, uid, models.Language("xx")); err == nil {
		t.Error("SetLanguage accepted unsupported language")
	}
}
