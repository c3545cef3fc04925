package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/middleware"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Logger   *zap.Logger
	Database *database.Database

	// Catalog storage
	Genres        GenreStore
	BookInstances BookInstanceStore
	Books         BookCatalog

	// Optional, nil disables change auditing
	Audit ChangeLogger

	// Optional, nil leaves the job schedule out of /health
	Maintenance MaintenanceStatus

	// Optional, nil disables sessions and flash messages
	SessionManager *middleware.SessionManager

	// Empty disables CSRF protection
	CSRFSecret    []byte
	SecureCookies bool

	TemplatesPath string
	StaticPath    string

	Version string
}
