package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"menu-bot/models"
)

// CustomerLanguages remembers each Telegram customer's display language in
// customer_users (see migrations/002_customer_users.sql).
type CustomerLanguages struct {
	pool *pgxpool.Pool
}

func NewCustomerLanguages(pool *pgxpool.Pool) *CustomerLanguages {
	return &CustomerLanguages{pool: pool}
}

// EnsureTable creates customer_users if missing (when migrate was not run).
func (c *CustomerLanguages) EnsureTable(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS customer_users (
			tg_user_id BIGINT PRIMARY KEY,
			language TEXT NOT NULL,
			language_selected_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// GetLanguage returns the stored language. ok is false when the user never
// picked one or the stored code is no longer supported.
func (c *CustomerLanguages) GetLanguage(ctx context.Context, tgUserID int64) (models.Language, bool, error) {
	var raw string
	err := c.pool.QueryRow(ctx,
		`SELECT language FROM customer_users WHERE tg_user_id = $1`, tgUserID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	l, err := models.ParseLanguage(raw)
	if err != nil {
		return "", false, nil
	}
	return l, true, nil
}

// SetLanguage sets (or updates) the customer's language and language_selected_at.
func (c *CustomerLanguages) SetLanguage(ctx context.Context, tgUserID int64, l models.Language) error {
	if _, err := models.ParseLanguage(string(l)); err != nil {
		return err
	}
	_, err := c.pool.Exec(ctx, `
		INSERT INTO customer_users (tg_user_id, language, language_selected_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tg_user_id) DO UPDATE
		SET language = EXCLUDED.language, language_selected_at = now()`,
		tgUserID, string(l),
	)
	if err != nil {
		return fmt.Errorf("save customer language: %w", err)
	}
	return nil
}
