package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
)

// Mail providers.
const (
	MailMailgun = "mailgun"
	MailSMTP    = "smtp"
)

// File store backends.
const (
	FileStoreDrive = "drive"
	FileStoreGCS   = "gcs"
	FileStoreNone  = "none"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	StoreDriver                      string `mapstructure:"STORE_DRIVER"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	MongoURI                         string `mapstructure:"MONGODB_URI"`
	MongoDatabase                    string `mapstructure:"MONGODB_DATABASE"`

	EncryptionKey string `mapstructure:"ENCRYPTION_KEY"` // Base64 encoded, 32 bytes decoded

	StripeSecretKey      string        `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret  string        `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	VerifyPaymentSession bool          `mapstructure:"VERIFY_PAYMENT_SESSION"`
	PaymentTimeout       time.Duration `mapstructure:"PAYMENT_TIMEOUT"`

	MailProvider  string        `mapstructure:"MAIL_PROVIDER"`
	MailgunAPIKey string        `mapstructure:"MAILGUN_API_KEY"`
	MailgunDomain string        `mapstructure:"MAILGUN_DOMAIN"`
	MailFrom      string        `mapstructure:"MAIL_FROM"`
	SMTPHost      string        `mapstructure:"SMTP_HOST"`
	SMTPPort      int           `mapstructure:"SMTP_PORT"`
	SMTPUsername  string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword  string        `mapstructure:"SMTP_PASSWORD"`
	EmailTimeout  time.Duration `mapstructure:"EMAIL_TIMEOUT"`

	FileStore               string        `mapstructure:"FILE_STORE"`
	GoogleServiceAccountKey string        `mapstructure:"GOOGLE_SERVICE_ACCOUNT_KEY"`
	DriveFolderID           string        `mapstructure:"GOOGLE_DRIVE_FOLDER_ID"`
	GCSBucket               string        `mapstructure:"GCS_BUCKET"`
	FileStoreTimeout        time.Duration `mapstructure:"FILE_STORE_TIMEOUT"`

	RedisURL            string        `mapstructure:"REDIS_URL"`
	LinkCacheTTL        time.Duration `mapstructure:"LINK_CACHE_TTL"`
	SigninRatePerMinute int           `mapstructure:"SIGNIN_RATE_PER_MINUTE"`

	AdminAPIToken      string `mapstructure:"ADMIN_API_TOKEN"`
	SeedLessonsOnStart bool   `mapstructure:"SEED_LESSONS_ON_START"`

	OtelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
	OtelInsecure    bool   `mapstructure:"OTEL_INSECURE"`
}

var appConfig *Config

var keys = []string{
	"PORT", "GIN_MODE", "CLIENT_URL",
	"STORE_DRIVER", "FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "MONGODB_URI", "MONGODB_DATABASE",
	"ENCRYPTION_KEY",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "VERIFY_PAYMENT_SESSION", "PAYMENT_TIMEOUT",
	"MAIL_PROVIDER", "MAILGUN_API_KEY", "MAILGUN_DOMAIN", "MAIL_FROM",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "EMAIL_TIMEOUT",
	"FILE_STORE", "GOOGLE_SERVICE_ACCOUNT_KEY", "GOOGLE_DRIVE_FOLDER_ID", "GCS_BUCKET", "FILE_STORE_TIMEOUT",
	"REDIS_URL", "LINK_CACHE_TTL", "SIGNIN_RATE_PER_MINUTE",
	"ADMIN_API_TOKEN", "SEED_LESSONS_ON_START",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "OTEL_INSECURE",
}

// LoadConfig loads configuration from an optional .env file, an optional
// CONFIG_FILE and the process environment, in increasing precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "3001")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORE_DRIVER", StoreFirestore)
	v.SetDefault("MONGODB_DATABASE", "ageback")
	v.SetDefault("PAYMENT_TIMEOUT", 10*time.Second)
	v.SetDefault("MAIL_PROVIDER", MailMailgun)
	v.SetDefault("MAILGUN_DOMAIN", "mg.ageback.coach")
	v.SetDefault("MAIL_FROM", "AgeBack Coach <postmaster@mg.ageback.coach>")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_TIMEOUT", 10*time.Second)
	v.SetDefault("FILE_STORE", FileStoreDrive)
	v.SetDefault("FILE_STORE_TIMEOUT", 5*time.Second)
	v.SetDefault("LINK_CACHE_TTL", 10*time.Minute)
	v.SetDefault("SIGNIN_RATE_PER_MINUTE", 10)
	v.SetDefault("SEED_LESSONS_ON_START", true)
	v.SetDefault("OTEL_SERVICE_NAME", "ageback-backend")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	appConfig = &cfg
	return appConfig, nil
}

func (cfg *Config) validate() error {
	if cfg.ClientURL == "" {
		return errors.New("CLIENT_URL is required")
	}
	if cfg.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is required")
	}
	if cfg.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required")
	}

	switch cfg.StoreDriver {
	case StoreFirestore:
		if cfg.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore store")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported", cfg.StoreDriver)
	}

	switch cfg.MailProvider {
	case MailMailgun:
		if cfg.MailgunAPIKey == "" {
			return errors.New("MAILGUN_API_KEY is required for the mailgun provider")
		}
	case MailSMTP:
		if cfg.SMTPHost == "" {
			return errors.New("SMTP_HOST is required for the smtp provider")
		}
	default:
		return fmt.Errorf("MAIL_PROVIDER %q is not supported", cfg.MailProvider)
	}

	switch cfg.FileStore {
	case FileStoreDrive:
		if cfg.DriveFolderID == "" {
			return errors.New("GOOGLE_DRIVE_FOLDER_ID is required for the drive file store")
		}
	case FileStoreGCS:
		if cfg.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required for the gcs file store")
		}
	case FileStoreNone:
	default:
		return fmt.Errorf("FILE_STORE %q is not supported", cfg.FileStore)
	}

	return nil
}

// ClientOrigins splits CLIENT_URL into the list of allowed CORS origins.
// The first entry is the base used for checkout redirects.
func (cfg *Config) ClientOrigins() []string {
	var origins []string
	for _, o := range strings.Split(cfg.ClientURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// RedirectBaseURL is the client URL checkout sessions redirect back to.
func (cfg *Config) RedirectBaseURL() string {
	origins := cfg.ClientOrigins()
	if len(origins) == 0 {
		return ""
	}
	return origins[0]
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
