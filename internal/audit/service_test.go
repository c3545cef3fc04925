package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepo "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Every pooled connection to :memory: would get its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo, zap.NewNop())

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EntityType: "genre",
		EntityID:   "g1",
		Action:     entities.AuditActionCreate,
		Status:     entities.AuditStatusSuccess,
	}

	err := svc.Log(context.Background(), event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, entities.AuditActionCreate, saved.Action)
}

func TestService_LogChange(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("successful change", func(t *testing.T) {
		svc.LogChange(entities.AuditActionUpdate, "genre", "g1", "Updated genre: Fantasy", "127.0.0.1", nil)
		svc.Wait()

		events, err := svc.History(ctx, "genre", "g1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
		assert.Equal(t, "127.0.0.1", events[0].IPAddress)
		assert.Equal(t, "Updated genre: Fantasy", events[0].Description)
	})

	t.Run("failed change", func(t *testing.T) {
		svc.LogChange(entities.AuditActionDelete, "bookinstance", "b1", "Deleted copy", "", errors.New("disk full"))
		svc.Wait()

		events, err := svc.History(ctx, "bookinstance", "b1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entities.AuditStatusFailed, events[0].Status)
		assert.Equal(t, "disk full", events[0].ErrorMsg)
	})

	t.Run("long descriptions are truncated", func(t *testing.T) {
		svc.LogChange(entities.AuditActionCreate, "genre", "g2", strings.Repeat("x", 600), "", nil)
		svc.Wait()

		events, err := svc.History(ctx, "genre", "g2")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Len(t, events[0].Description, 500)
		assert.True(t, strings.HasSuffix(events[0].Description, "..."))
	})
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{EntityType: "genre", EntityID: "old", CreatedAt: time.Now().Add(-40 * 24 * time.Hour)}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{EntityType: "genre", EntityID: "new"}))

	deleted, err := svc.DeleteOldEvents(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
