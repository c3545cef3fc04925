// Package books provides read-only access to books for the genre and book
// instance pages.
package books

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Repository handles book reads.
type Repository struct {
	db     *gorm.DB
	locale language.Tag
}

// NewRepository creates a books repository that orders titles using the
// collation rules of locale.
func NewRepository(db *gorm.DB, locale language.Tag) *Repository {
	return &Repository{db: db, locale: locale}
}

// ListBookTitles returns id and title of every book, sorted by title with
// locale-aware collation.
func (r *Repository) ListBookTitles(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := r.db.WithContext(ctx).Select("id", "title").Find(&books).Error; err != nil {
		return nil, err
	}
	SortByTitle(books, r.locale)
	return books, nil
}

// SortByTitle sorts books in place. Case and accents are secondary to the
// base letters, so "apes" sorts next to "Apes" and "Émile" next to "Emile".
func SortByTitle(books []entities.Book, locale language.Tag) {
	c := collate.New(locale, collate.IgnoreCase)
	sort.SliceStable(books, func(i, j int) bool {
		return c.CompareString(books[i].Title, books[j].Title) < 0
	})
}

// ParseLocale parses a BCP 47 tag, falling back to English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
