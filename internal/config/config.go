package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPPort int `env:"HTTP_PORT" env-default:"8080"`

	PostgresURL         string `env:"POSTGRES_URL" env-required:"true"`
	PostgresAutoMigrate bool   `env:"POSTGRES_AUTO_MIGRATE" env-default:"true"`
	PostgresMaxConn     int32  `env:"POSTGRES_MAX_CONN" env-default:"10"`
	PostgresMinConn     int32  `env:"POSTGRES_MIN_CONN" env-default:"2"`

	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"168h"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `env:"CURRENCY" env-default:"usd"`
	CheckoutSuccessURL  string `env:"CHECKOUT_SUCCESS_URL" env-default:"http://localhost:5173/loading/my-enrollments"`
	CheckoutCancelURL   string `env:"CHECKOUT_CANCEL_URL" env-default:"http://localhost:5173/"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	RedisURL        string        `env:"REDIS_URL" env-default:"localhost:6379"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" env-default:"60s"`

	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	KafkaEnrollmentTopic string   `env:"KAFKA_ENROLLMENT_TOPIC" env-default:"course.enrollments"`
}

func New() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig("./config/.env", &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}
