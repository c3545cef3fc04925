package database

import (
	"context"
	"fmt"
)

// IntegrityReport counts references that point at rows which no longer
// exist. Deleting a genre or a book does not touch the rows referring to it,
// so these counts can grow over time.
type IntegrityReport struct {
	DanglingGenreRefs int64 `json:"dangling_genre_refs"`
	OrphanedInstances int64 `json:"orphaned_instances"`
}

// Clean reports whether no dangling references were found.
func (r IntegrityReport) Clean() bool {
	return r.DanglingGenreRefs == 0 && r.OrphanedInstances == 0
}

// CheckIntegrity scans for dangling references. It never modifies data.
func (d *Database) CheckIntegrity(ctx context.Context) (IntegrityReport, error) {
	var report IntegrityReport

	err := d.DB.WithContext(ctx).Table("book_genres").
		Where("genre_id NOT IN (SELECT id FROM genres)").
		Count(&report.DanglingGenreRefs).Error
	if err != nil {
		return report, fmt.Errorf("count dangling genre references: %w", err)
	}

	err = d.DB.WithContext(ctx).Table("book_instances").
		Where("book_id NOT IN (SELECT id FROM books)").
		Count(&report.OrphanedInstances).Error
	if err != nil {
		return report, fmt.Errorf("count orphaned book instances: %w", err)
	}

	return report, nil
}
