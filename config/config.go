package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBType        string `envconfig:"DB_TYPE" default:"postgres"`
	PostgresURL   string `envconfig:"POSTGRES_URL"`
	MongoURL      string `envconfig:"MONGO_URL"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"kpslogistics"`
	MigrationsURL string `envconfig:"MIGRATIONS_URL" default:"file://db/migrations"`
	Port          string `envconfig:"PORT" default:"8080"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	AnalyticsCacheTTL time.Duration `envconfig:"ANALYTICS_CACHE_TTL" default:"5m"`

	DefaultBillingAddress string `envconfig:"INVOICE_DEFAULT_ADDRESS" default:"Manipal / Udupi"`
	AdminPassword         string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	PDFSavePath           string `envconfig:"PDF_SAVE_PATH" default:"./pdfs"`

	R2 R2Config
}

// R2Config is read from R2_BUCKET, R2_ACCOUNT_ID and so on.
type R2Config struct {
	Bucket          string `envconfig:"BUCKET"`
	AccountID       string `envconfig:"ACCOUNT_ID"`
	PublicURL       string `envconfig:"PUBLIC_URL"`
	AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
}

// Enabled reports whether every R2 setting needed for uploads is present.
func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccountID != "" && c.PublicURL != ""
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
