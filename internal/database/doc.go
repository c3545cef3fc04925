// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── integrity.go     # Dangling reference report
//	├── seed.go          # Sample catalog
//	├── genres/          # Genre CRUD and the genre → books join
//	├── books/           # Read-only book titles with collation
//	├── bookinstances/   # Book instance CRUD
//	└── audit/           # Catalog change events
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./locallibrary.db")
//
//	genresRepo := genres.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB, language.English)
//
//	genre, err := genresRepo.GetGenre(ctx, id)
//	titles, err := booksRepo.ListBookTitles(ctx)
//
// # Not Found
//
// Repositories never return gorm.ErrRecordNotFound. Lookups of a missing row
// return entities.ErrNotFound, and so do updates or deletes that matched no
// row where the caller needs to know.
//
// # Interface Implementations
//
//   - genres.Repository: implements http.GenreStore
//   - bookinstances.Repository: implements http.BookInstanceStore
//   - books.Repository: implements http.BookCatalog
//   - Database: implements tasks.IntegrityChecker
package database
