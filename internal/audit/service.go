// Package audit records changes made to the catalog.
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	log  *zap.Logger
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log.Named("audit")}
}

// Log records an audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The event outlives the request, so it is not bound to the request context.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Log(context.Background(), event); err != nil {
			s.log.Error("failed to log audit event",
				zap.String("entity_type", event.EntityType),
				zap.String("entity_id", event.EntityID),
				zap.Error(err))
		}
	}()
}

// LogChange records a create, update or delete of a catalog entity.
func (s *Service) LogChange(action entities.AuditAction, entityType, entityID, description, ipAddr string, err error) {
	event := &entities.AuditEvent{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: truncate(description, 500),
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// History returns the recorded changes of one entity, most recent first.
func (s *Service) History(ctx context.Context, entityType, entityID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(ctx, entityType, entityID)
}

// DeleteOldEvents removes events older than retention.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteOldEvents(ctx, time.Now().Add(-retention))
}

// Wait blocks until every pending LogAsync call has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
