// Package genres provides database operations for genre management.
//
// This package implements the GenreStore interface defined in
// internal/http/genres.go.
//
// # Usage
//
//	repo := genres.NewRepository(db)
//	genre, err := repo.FindGenreByName(ctx, "Fantasy")
package genres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListGenres returns all genres ordered by name.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetGenre retrieves a genre by ID.
func (r *Repository) GetGenre(ctx context.Context, id string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&genre).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &genre, nil
}

// FindGenreByName retrieves the genre with exactly this name.
func (r *Repository) FindGenreByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &genre, nil
}

// CreateGenre inserts a new genre. Name uniqueness is the caller's concern.
func (r *Repository) CreateGenre(ctx context.Context, genre *entities.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

// UpdateGenre replaces the mutable fields of the genre with genre.ID and
// returns the stored row.
func (r *Repository) UpdateGenre(ctx context.Context, genre *entities.Genre) (*entities.Genre, error) {
	result := r.db.WithContext(ctx).Model(&entities.Genre{ID: genre.ID}).
		Select("name").
		Updates(entities.Genre{Name: genre.Name})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("genre %s: %w", genre.ID, entities.ErrNotFound)
	}
	return r.GetGenre(ctx, genre.ID)
}

// DeleteGenre deletes a genre. Books that reference it keep the reference.
func (r *Repository) DeleteGenre(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.Genre{}, "id = ?", id).Error
}

// GetBooksByGenre returns the books tagged with the genre, ordered by title.
func (r *Repository) GetBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	return err
}
