package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Store    StoreConfig
	Order    OrderConfig
	HTTP     HTTPConfig
	Share    ShareConfig
	Log      LogConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token      string // customer menu bot
	AdminToken string // catalog editor bot, optional
	AdminID    int64  // only this Telegram user may edit the catalog
}

type StoreConfig struct {
	Driver     string // postgres, sqlite, s3 or memory
	Key        string
	SQLitePath string
	S3         S3Config
}

type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

type OrderConfig struct {
	RestaurantName string
	Host           string
	FallbackPhone  string
	Currency       string
	RequireName    bool
	ClearOnSend    bool
}

type HTTPConfig struct {
	Addr string // empty disables the API
}

type ShareConfig struct {
	PublicURL string // page shared by /share
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	adminID, _ := strconv.ParseInt(getEnv("ADMIN_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "menu"),
		},
		Telegram: TelegramConfig{
			Token:      getEnv("TOKEN", ""),
			AdminToken: getEnv("ADMIN_TOKEN", ""),
			AdminID:    adminID,
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "postgres"),
			Key:        getEnv("STORE_KEY", "pizzeria_menu_data"),
			SQLitePath: getEnv("SQLITE_PATH", "data/menu.db"),
			S3: S3Config{
				Bucket:       getEnv("S3_BUCKET", ""),
				Region:       getEnv("S3_REGION", "eu-west-1"),
				Endpoint:     getEnv("S3_ENDPOINT", ""),
				AccessKey:    getEnv("S3_ACCESS_KEY", ""),
				SecretKey:    getEnv("S3_SECRET_KEY", ""),
				UsePathStyle: getBool("S3_PATH_STYLE", false),
			},
		},
		Order: OrderConfig{
			RestaurantName: getEnv("RESTAURANT_NAME", "Pizzeria Fenicia"),
			Host:           getEnv("ORDER_HOST", "wa.me"),
			FallbackPhone:  getEnv("ORDER_FALLBACK_PHONE", "351281325175"),
			Currency:       getEnv("ORDER_CURRENCY", "€"),
			RequireName:    getBool("ORDER_REQUIRE_NAME", true),
			ClearOnSend:    getBool("ORDER_CLEAR_ON_SEND", false),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Share: ShareConfig{
			PublicURL: getEnv("PUBLIC_URL", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBool("LOG_PRETTY", false),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getBool accepts 1/0, true/false, yes/no, on/off. Anything else gives def.
func getBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
