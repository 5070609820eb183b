package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ageback-backend-go/internal/db"
	"ageback-backend-go/internal/models"
)

// ActorSystem is recorded when no request actor is known.
const ActorSystem = "system"

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// CreateAuditLog stores logEntry, filling its id and timestamp if unset.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if logEntry.ID == "" {
		logEntry.ID = uuid.NewString()
	}
	if logEntry.Timestamp.IsZero() {
		logEntry.Timestamp = time.Now().UTC()
	}

	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

func (s *auditService) Record(ctx context.Context, action, targetType, targetID string, details map[string]any) {
	meta := RequestMetaFrom(ctx)
	actor := meta.Actor
	if actor == "" {
		actor = ActorSystem
	}

	entry := models.AuditLog{
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IPAddress:  meta.IPAddress,
		Details:    details,
	}
	if err := s.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("Audit log write failed",
			zap.String("action", action),
			zap.String("targetId", targetID),
			zap.Error(err))
	}
}
