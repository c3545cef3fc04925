// Package bookinstances provides database operations for physical copies of
// books.
package bookinstances

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBookInstances returns every instance with its book populated.
func (r *Repository) ListBookInstances(ctx context.Context) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").Find(&instances).Error
	return instances, err
}

// GetBookInstance retrieves an instance with its book populated.
func (r *Repository) GetBookInstance(ctx context.Context, id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").Where("id = ?", id).First(&instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// CreateBookInstance inserts a new instance. The referenced book is not
// checked.
func (r *Repository) CreateBookInstance(ctx context.Context, instance *entities.BookInstance) error {
	return r.db.WithContext(ctx).Omit("Book").Create(instance).Error
}

// UpdateBookInstance replaces every mutable field of the instance with
// instance.ID, clearing the due date when it is nil, and returns the stored
// row.
func (r *Repository) UpdateBookInstance(ctx context.Context, instance *entities.BookInstance) (*entities.BookInstance, error) {
	result := r.db.WithContext(ctx).Model(&entities.BookInstance{ID: instance.ID}).
		Select("book_id", "imprint", "status", "due_back").
		Updates(map[string]any{
			"book_id":  instance.BookID,
			"imprint":  instance.Imprint,
			"status":   instance.Status,
			"due_back": instance.DueBack,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("book instance %s: %w", instance.ID, entities.ErrNotFound)
	}
	return r.GetBookInstance(ctx, instance.ID)
}

// DeleteBookInstance deletes an instance.
func (r *Repository) DeleteBookInstance(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.BookInstance{}, "id = ?", id).Error
}
