package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"menu-bot/api"
	"menu-bot/bot"
	"menu-bot/config"
	"menu-bot/db"
	"menu-bot/models"
	"menu-bot/services"
	"menu-bot/storage"
)

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	setupLogging(cfg.Log)

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := storage.ParseDriver(cfg.Store.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("store")
	}
	opts := storage.Options{
		Key:        cfg.Store.Key,
		SQLitePath: cfg.Store.SQLitePath,
		S3: storage.S3Config{
			Region:          cfg.Store.S3.Region,
			Bucket:          cfg.Store.S3.Bucket,
			Endpoint:        cfg.Store.S3.Endpoint,
			AccessKeyID:     cfg.Store.S3.AccessKey,
			SecretAccessKey: cfg.Store.S3.SecretKey,
			PathStyle:       cfg.Store.S3.UsePathStyle,
		},
	}
	if driver == storage.DriverPostgres {
		if err := db.Init(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("db")
		}
		defer db.Close()

		// Optional auto-migration (useful in production and for fresh DBs).
		// Set AUTO_MIGRATE=1 (or "true") to enable.
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, false); err != nil {
				log.Fatal().Err(err).Msg("migrate")
			}
		}
		opts.Pool = db.Pool
	}
	persister, err := storage.Open(ctx, driver, opts)
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(driver)).Msg("open store")
	}
	if c, ok := persister.(interface{ Close() error }); ok {
		defer c.Close()
	}

	store, err := services.OpenCatalog(ctx, persister, models.DefaultMenu())
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(driver)).Msg("load menu")
	}
	log.Info().Str("driver", string(driver)).Int("categories", len(store.Categories())).Msg("menu loaded")

	started := 0
	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg, store)
		if err != nil {
			log.Fatal().Err(err).Msg("bot")
		}
		if driver == storage.DriverPostgres {
			prefs := services.NewCustomerLanguages(db.Pool)
			if err := prefs.EnsureTable(ctx); err != nil {
				log.Warn().Err(err).Msg("customer_users table")
			}
			b.WithLanguagePrefs(prefs)
		}
		go b.Start(ctx)
		started++
		log.Info().Msg("menu bot started")
	}

	if cfg.Telegram.AdminToken != "" {
		admin, err := bot.NewAdminBot(cfg, store)
		if err != nil {
			log.Fatal().Err(err).Msg("admin bot")
		}
		go admin.Start(ctx)
		started++
		log.Info().Int64("admin_id", cfg.Telegram.AdminID).Msg("admin bot started")
	}

	var srv *http.Server
	if cfg.HTTP.Addr != "" {
		h := api.NewHandler(store, bot.OrderConfig(cfg), cfg.Share.PublicURL)
		srv = &http.Server{Addr: cfg.HTTP.Addr, Handler: api.NewRouter(h), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("http")
			}
		}()
		started++
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http api started")
	}

	if started == 0 {
		log.Fatal().Msg("nothing to run: set TOKEN, ADMIN_TOKEN or HTTP_ADDR")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
}
