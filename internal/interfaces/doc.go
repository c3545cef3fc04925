// Package interfaces lists the core abstractions of the catalog and holds
// compile-time checks that the concrete types implement them.
//
// # Interface Categories
//
// ## Catalog Storage
//
//   - GenreStore: genre pages (internal/http/genres.go)
//   - BookInstanceStore: book copy pages (internal/http/bookinstances.go)
//   - BookCatalog: collated book titles for the copy form (internal/http/bookinstances.go)
//
// ## Request Plumbing
//
//   - ChangeLogger: audit trail of catalog changes and its history (internal/http/helpers.go)
//   - FlashStore: one-shot messages shown after a redirect (internal/http/helpers.go)
//
// ## Background Maintenance
//
//   - IntegrityChecker: dangling reference scan (internal/tasks/integrity_check.go)
//   - AuditEventCleaner: audit retention (internal/tasks/cleanup_audit.go)
//   - Enqueuer: cron jobs handing tasks to the queue (internal/scheduler/maintenance.go)
//   - MaintenanceStatus: job schedule shown by /health (internal/http/health.go)
//
// # Adding a New Catalog Entity
//
// To add pages for another entity (e.g., authors):
//
//  1. Add the model to internal/entities and to the migration list in
//     internal/database/database.go.
//
//  2. Create a repository in internal/database/authors/:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the store interface next to its controller in internal/http
//     and add the form type to internal/forms.
//
//  4. Register routes in router.go and add a compile-time check:
//
//     var _ http.AuthorStore = (*authors.Repository)(nil)
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
