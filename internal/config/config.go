package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string `yaml:"database_url"`
	DBLogLevel  string `yaml:"db_log_level"`
	Port        string `yaml:"port"`
	LogFile     string `yaml:"log_file"`

	CronSecret string `yaml:"cron_secret"`

	AbacatePayURL           string `yaml:"abacate_pay_api_url"`
	AbacatePayAPIKey        string `yaml:"abacate_pay_api_key"`
	AbacatePayWebhookSecret string `yaml:"abacate_pay_webhook_secret"`
	PaymentAmountCents      int64  `yaml:"payment_amount_cents"`
	PaymentDescription      string `yaml:"payment_description"`

	ResendURL       string `yaml:"resend_api_url"`
	ResendAPIKey    string `yaml:"resend_api_key"`
	ResendFromEmail string `yaml:"resend_from_email"`

	FirebaseCredentials   string `yaml:"firebase_credentials"`
	FirebaseStorageBucket string `yaml:"firebase_storage_bucket"`
	FCMOpsTopic           string `yaml:"fcm_ops_topic"`
	UploadsDir            string `yaml:"uploads_dir"`
	PublicBaseURL         string `yaml:"public_base_url"`

	SweepBatchSize   int           `yaml:"sweep_batch_size"`
	SweepConcurrency int           `yaml:"sweep_concurrency"`
	ExternalTimeout  time.Duration `yaml:"external_timeout"`
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "visionboard.db"),
		DBLogLevel:  getEnv("DB_LOG_LEVEL", "warn"),
		Port:        getEnv("PORT", "8080"),
		LogFile:     getEnv("LOG_FILE", ""),

		CronSecret: getEnv("CRON_SECRET", ""),

		AbacatePayURL:           getEnv("ABACATE_PAY_API_URL", "https://api.abacatepay.com/v1"),
		AbacatePayAPIKey:        getEnv("ABACATE_PAY_API_KEY", ""),
		AbacatePayWebhookSecret: getEnv("ABACATE_PAY_WEBHOOK_SECRET", ""),
		PaymentAmountCents:      int64(getEnvInt("PAYMENT_AMOUNT_CENTS", 499)),
		PaymentDescription:      getEnv("PAYMENT_DESCRIPTION", "Vision Board - 1 Year Email Reminder"),

		ResendURL:       getEnv("RESEND_API_URL", "https://api.resend.com"),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		ResendFromEmail: getEnv("RESEND_FROM_EMAIL", "noreply@yourdomain.com"),

		FirebaseCredentials:   getEnv("FIREBASE_CREDENTIALS", ""),
		FirebaseStorageBucket: getEnv("FIREBASE_STORAGE_BUCKET", ""),
		FCMOpsTopic:           getEnv("FCM_OPS_TOPIC", ""),
		UploadsDir:            getEnv("UPLOADS_DIR", "uploads"),
		PublicBaseURL:         getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		SweepBatchSize:   getEnvInt("SWEEP_BATCH_SIZE", 100),
		SweepConcurrency: getEnvInt("SWEEP_CONCURRENCY", 4),
		ExternalTimeout:  getEnvDuration("EXTERNAL_TIMEOUT", 20*time.Second),
	}
}

// LoadFile overlays the non-empty values of a YAML file onto cfg.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.merge(&file)
	return nil
}

func (c *Config) merge(o *Config) {
	setString(&c.DatabaseURL, o.DatabaseURL)
	setString(&c.DBLogLevel, o.DBLogLevel)
	setString(&c.Port, o.Port)
	setString(&c.LogFile, o.LogFile)
	setString(&c.CronSecret, o.CronSecret)
	setString(&c.AbacatePayURL, o.AbacatePayURL)
	setString(&c.AbacatePayAPIKey, o.AbacatePayAPIKey)
	setString(&c.AbacatePayWebhookSecret, o.AbacatePayWebhookSecret)
	setString(&c.PaymentDescription, o.PaymentDescription)
	setString(&c.ResendURL, o.ResendURL)
	setString(&c.ResendAPIKey, o.ResendAPIKey)
	setString(&c.ResendFromEmail, o.ResendFromEmail)
	setString(&c.FirebaseCredentials, o.FirebaseCredentials)
	setString(&c.FirebaseStorageBucket, o.FirebaseStorageBucket)
	setString(&c.FCMOpsTopic, o.FCMOpsTopic)
	setString(&c.UploadsDir, o.UploadsDir)
	setString(&c.PublicBaseURL, o.PublicBaseURL)

	if o.PaymentAmountCents > 0 {
		c.PaymentAmountCents = o.PaymentAmountCents
	}
	if o.SweepBatchSize > 0 {
		c.SweepBatchSize = o.SweepBatchSize
	}
	if o.SweepConcurrency > 0 {
		c.SweepConcurrency = o.SweepConcurrency
	}
	if o.ExternalTimeout > 0 {
		c.ExternalTimeout = o.ExternalTimeout
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
