package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"ageback-backend-go/internal/models"
)

const auditLogsCollection = "auditLogs"

type firestoreAuditRepository struct {
	client *firestore.Client
}

func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	return &firestoreAuditRepository{client: client}
}

func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, err := r.client.Collection(auditLogsCollection).Doc(logEntry.ID).Create(ctx, toAuditRecord(logEntry)); err != nil {
		return fmt.Errorf("failed to write audit log %s: %w", logEntry.Action, err)
	}
	return nil
}
