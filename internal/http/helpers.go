package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/middleware"
)

// FlashStore carries one-shot messages across a redirect.
type FlashStore interface {
	Flash(ctx context.Context, msg string)
	PopFlash(ctx context.Context) string
}

// ChangeLogger records catalog changes and reads them back.
type ChangeLogger interface {
	LogChange(action entities.AuditAction, entityType, entityID, description, ipAddr string, err error)
	History(ctx context.Context, entityType, entityID string) ([]entities.AuditEvent, error)
}

// pages renders views with the data every page needs.
type pages struct {
	flash FlashStore
}

func (p pages) render(c *gin.Context, name string, data gin.H) {
	data["csrfField"] = middleware.CSRFField(c)
	if p.flash != nil {
		if msg := p.flash.PopFlash(c.Request.Context()); msg != "" {
			data["Flash"] = msg
		}
	}
	c.HTML(http.StatusOK, name, data)
}

func (p pages) addFlash(c *gin.Context, msg string) {
	if p.flash != nil {
		p.flash.Flash(c.Request.Context(), msg)
	}
}

// parseIDParam reads the :id path parameter. Identifiers that cannot exist
// are reported as a missing resource.
func parseIDParam(c *gin.Context, resource string) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = c.Error(notFoundError{resource: resource})
		return "", false
	}
	return id, true
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func logChange(l ChangeLogger, c *gin.Context, action entities.AuditAction, entityType, entityID, description string, err error) {
	if l == nil {
		return
	}
	l.LogChange(action, entityType, entityID, description, c.ClientIP(), err)
}

// changeHistory returns the recorded changes of an entity, or nil when
// auditing is off.
func changeHistory(ctx context.Context, l ChangeLogger, entityType, entityID string) ([]entities.AuditEvent, error) {
	if l == nil {
		return nil, nil
	}
	events, err := l.History(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("load %s history: %w", entityType, err)
	}
	return events, nil
}
