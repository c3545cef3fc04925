package database

import (
	"context"
	"fmt"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// CatalogStats holds row counts for the catalog tables.
type CatalogStats struct {
	Genres        int64 `json:"genres"`
	Books         int64 `json:"books"`
	BookInstances int64 `json:"book_instances"`
}

// Stats counts the rows of each catalog table.
func (d *Database) Stats(ctx context.Context) (CatalogStats, error) {
	var stats CatalogStats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&entities.Genre{}, &stats.Genres},
		{&entities.Book{}, &stats.Books},
		{&entities.BookInstance{}, &stats.BookInstances},
	}
	for _, c := range counts {
		if err := d.DB.WithContext(ctx).Model(c.model).Count(c.dst).Error; err != nil {
			return stats, fmt.Errorf("count %T: %w", c.model, err)
		}
	}
	return stats, nil
}
