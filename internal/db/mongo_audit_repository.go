package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"ageback-backend-go/internal/models"
)

type mongoAuditRepository struct {
	logs *mongo.Collection
}

func NewMongoAuditRepository(database *mongo.Database) AuditRepository {
	return &mongoAuditRepository{logs: database.Collection(auditLogsCollection)}
}

func (r *mongoAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, err := r.logs.InsertOne(ctx, toAuditRecord(logEntry)); err != nil {
		return fmt.Errorf("failed to write audit log %s: %w", logEntry.Action, err)
	}
	return nil
}
