// Package app wires configuration into the collaborators and services
// shared by the HTTP server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ageback-backend-go/internal/api"
	"ageback-backend-go/internal/config"
	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/crypto"
	"ageback-backend-go/internal/db"
	"ageback-backend-go/internal/firebase"
	"ageback-backend-go/internal/mailer"
	"ageback-backend-go/internal/middleware"
	"ageback-backend-go/internal/payment"
	"ageback-backend-go/internal/storage"
)

const mongoTimeout = 10 * time.Second

// Application holds the initialized collaborators and services.
type Application struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *db.Store
	Redis    *redis.Client
	Files    storage.FileStore
	Gateway  *payment.StripeGateway
	Sender   mailer.Sender
	Services api.Services

	closers []func() error
}

// New builds every collaborator named by appConfig and the services on top.
func New(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*Application, error) {
	a := &Application{Config: appConfig, Logger: logger}

	key, err := crypto.DecodeKey(appConfig.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}

	a.Store, err = BuildStore(ctx, appConfig, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.Store.Close)

	a.Redis, err = BuildRedis(ctx, appConfig, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.Redis != nil {
		a.closers = append(a.closers, a.Redis.Close)
	}

	a.Files, err = BuildFileStore(ctx, appConfig, a.Redis, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := a.Files.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}

	a.Gateway = BuildGateway(appConfig)
	a.Sender = BuildMailer(appConfig)

	audit := core.NewAuditService(a.Store.Audit, logger)
	credentials := core.NewCredentialService(key)
	notifications := core.NewNotificationService(a.Sender, appConfig.MailFrom, appConfig.EmailTimeout, logger)
	lessons := core.NewLessonService(a.Store.Lessons, a.Files, audit, appConfig.FileStoreTimeout, logger)
	accounts := core.NewAccountService(a.Store.Users, credentials, notifications, audit, logger)

	a.Services = api.Services{
		Accounts:      accounts,
		Lessons:       lessons,
		Billing:       core.NewBillingService(a.Gateway, accounts, appConfig.RedirectBaseURL(), logger),
		Notifications: notifications,
		Media:         core.NewMediaService(a.Files, lessons, audit, logger),
	}
	return a, nil
}

// Close releases the collaborators in reverse construction order.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// BuildStore connects the configured document store.
func BuildStore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*db.Store, error) {
	switch appConfig.StoreDriver {
	case config.StoreFirestore:
		if err := db.InitFirestore(ctx, appConfig, logger); err != nil {
			return nil, fmt.Errorf("initialize firestore: %w", err)
		}
		logger.Info("Firestore store initialized.", zap.String("projectId", appConfig.FirebaseProjectID))
		return db.NewFirestoreStore(db.GetFirestoreClient()), nil

	case config.StoreMongo:
		client, err := db.ConnectMongo(ctx, appConfig.MongoURI, mongoTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		database := client.Database(appConfig.MongoDatabase)
		if err := db.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("MongoDB store initialized.", zap.String("database", appConfig.MongoDatabase))
		return db.NewMongoStore(client, database), nil
	}
	return nil, fmt.Errorf("STORE_DRIVER %q is not supported", appConfig.StoreDriver)
}

// BuildRedis returns nil when REDIS_URL is unset. An unreachable server
// is logged and the client kept; its users fall back on their own.
func BuildRedis(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if appConfig.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(appConfig.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis is not reachable; continuing with local fallbacks", zap.Error(err))
	} else {
		logger.Info("Redis connected.", zap.String("addr", opts.Addr))
	}
	return client, nil
}

// BuildFileStore returns the configured file store, wrapped in the link
// cache when Redis is available.
func BuildFileStore(ctx context.Context, appConfig *config.Config, rdb *redis.Client, logger *zap.Logger) (storage.FileStore, error) {
	creds := []byte(appConfig.GoogleServiceAccountKey)

	var (
		files storage.FileStore
		err   error
	)
	switch appConfig.FileStore {
	case config.FileStoreDrive:
		files, err = storage.NewDriveStore(ctx, creds, appConfig.DriveFolderID)
	case config.FileStoreGCS:
		files, err = storage.NewBucketStore(ctx, creds, appConfig.GCSBucket)
	case config.FileStoreNone:
		logger.Warn("File store disabled; lessons are served with their static URLs.")
		return storage.Disabled{}, nil
	default:
		return nil, fmt.Errorf("FILE_STORE %q is not supported", appConfig.FileStore)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s file store: %w", appConfig.FileStore, err)
	}
	logger.Info("File store initialized.", zap.String("backend", appConfig.FileStore))

	if rdb != nil {
		return storage.NewCachedStore(files, rdb, appConfig.LinkCacheTTL, logger), nil
	}
	return files, nil
}

// BuildGateway returns the Stripe gateway.
func BuildGateway(appConfig *config.Config) *payment.StripeGateway {
	return payment.NewStripeGateway(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret, appConfig.PaymentTimeout)
}

// BuildMailer returns the configured email sender.
func BuildMailer(appConfig *config.Config) mailer.Sender {
	if appConfig.MailProvider == config.MailSMTP {
		return mailer.NewSMTPSender(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.SMTPUsername, appConfig.SMTPPassword)
	}
	return mailer.NewMailgunSender(appConfig.MailgunDomain, appConfig.MailgunAPIKey, appConfig.EmailTimeout)
}

// BuildAdminVerifier prefers Firebase ID tokens and falls back to the
// static ADMIN_API_TOKEN. It returns nil when neither is available.
func BuildAdminVerifier(ctx context.Context, appConfig *config.Config, logger *zap.Logger) middleware.TokenVerifier {
	authClient := db.GetFirebaseAuthClient()
	if authClient == nil && appConfig.FirebaseProjectID != "" {
		var err error
		authClient, err = firebase.NewAuthClient(ctx, appConfig, logger)
		if err != nil {
			logger.Warn("Firebase Auth unavailable for admin routes", zap.Error(err))
		}
	}
	if authClient != nil {
		logger.Info("Admin routes verify Firebase ID tokens.")
		return middleware.NewFirebaseVerifier(authClient)
	}
	if appConfig.AdminAPIToken != "" {
		logger.Info("Admin routes verify the static admin token.")
		return middleware.NewStaticTokenVerifier(appConfig.AdminAPIToken)
	}
	logger.Warn("No admin authentication configured; admin routes reject every request.")
	return nil
}
