package interfaces

// Compile-time checks that the concrete types satisfy the interfaces their
// consumers declare. To verify: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/database/bookinstances"
	"github.com/mrlokans/locallibrary/internal/database/books"
	"github.com/mrlokans/locallibrary/internal/database/genres"
	"github.com/mrlokans/locallibrary/internal/http"
	"github.com/mrlokans/locallibrary/internal/middleware"
	"github.com/mrlokans/locallibrary/internal/scheduler"
	"github.com/mrlokans/locallibrary/internal/tasks"
)

// =============================================================================
// Catalog storage
// =============================================================================

var _ http.GenreStore = (*genres.Repository)(nil)
var _ http.BookInstanceStore = (*bookinstances.Repository)(nil)
var _ http.BookCatalog = (*books.Repository)(nil)

// =============================================================================
// Request plumbing
// =============================================================================

var _ http.ChangeLogger = (*audit.Service)(nil)
var _ http.FlashStore = (*middleware.SessionManager)(nil)

// =============================================================================
// Background maintenance
// =============================================================================

var _ tasks.IntegrityChecker = (*database.Database)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.MaintenanceStatus = (*scheduler.MaintenanceScheduler)(nil)
