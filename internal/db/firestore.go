package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"ageback-backend-go/internal/config"
	fbapp "ageback-backend-go/internal/firebase"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
)

// InitFirestore initializes the Firebase Admin SDK and sets up the Firestore
// and Auth clients from the configured credentials.
func InitFirestore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirestore: appConfig cannot be nil")
	}

	app, err := fbapp.NewApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}

	authCl, err := app.Auth(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("app.Auth: %w", err)
	}

	fsClient = client
	fbAuthClient = authCl
	return nil
}

// GetFirestoreClient returns the global Firestore client, or nil before InitFirestore.
func GetFirestoreClient() *firestore.Client {
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client, or nil before InitFirestore.
func GetFirebaseAuthClient() *auth.Client {
	return fbAuthClient
}

// NewFirestoreStore wires the Firestore repositories around client.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Users:   NewFirestoreUserRepository(client),
		Lessons: NewFirestoreLessonRepository(client),
		Audit:   NewFirestoreAuditRepository(client),
		Close:   client.Close,
	}
}
