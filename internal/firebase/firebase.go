// Package firebase initializes the Firebase Admin SDK shared by the
// Firestore store and admin token verification.
package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"ageback-backend-go/internal/config"
)

// ErrNotConfigured is returned when FIREBASE_PROJECT_ID is unset.
var ErrNotConfigured = errors.New("FIREBASE_PROJECT_ID must be set")

// NewApp creates a Firebase app from GOOGLE_APPLICATION_CREDENTIALS,
// FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 or Application Default Credentials,
// in that order.
func NewApp(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*firebase.App, error) {
	if appConfig.FirebaseProjectID == "" {
		return nil, ErrNotConfigured
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file from GOOGLE_APPLICATION_CREDENTIALS does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
		logger.Info("Initializing Firebase with credentials file.")
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		jsonKey, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		opts = append(opts, option.WithCredentialsJSON(jsonKey))
		logger.Info("Initializing Firebase with Base64 encoded service account JSON.")
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC).")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: appConfig.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	return app, nil
}

// NewAuthClient returns a Firebase Auth client, for deployments that
// verify admin tokens without using Firestore as the store.
func NewAuthClient(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*auth.Client, error) {
	app, err := NewApp(ctx, appConfig, logger)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Auth: %w", err)
	}
	return client, nil
}
