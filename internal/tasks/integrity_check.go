package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/database"
)

// IntegrityChecker reports references the catalog left dangling.
type IntegrityChecker interface {
	CheckIntegrity(ctx context.Context) (database.IntegrityReport, error)
}

// CatalogIntegrityTask counts book genre references to deleted genres and
// copies of deleted books. It only reads.
type CatalogIntegrityTask struct{}

func (t CatalogIntegrityTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "catalog_integrity_check",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CatalogIntegrityProcessor creates a processor function for CatalogIntegrityTask.
func CatalogIntegrityProcessor(checker IntegrityChecker, log *zap.Logger) backlite.QueueProcessor[CatalogIntegrityTask] {
	return func(ctx context.Context, task CatalogIntegrityTask) error {
		if checker == nil {
			return errors.New("integrity checker not configured")
		}

		report, err := checker.CheckIntegrity(ctx)
		if err != nil {
			return fmt.Errorf("check catalog integrity: %w", err)
		}

		fields := []zap.Field{
			zap.Int64("dangling_genre_refs", report.DanglingGenreRefs),
			zap.Int64("orphaned_instances", report.OrphanedInstances),
		}
		if report.Clean() {
			log.Info("catalog integrity check passed", fields...)
		} else {
			log.Warn("catalog has dangling references", fields...)
		}
		return nil
	}
}

// NewCatalogIntegrityQueue creates a backlite queue for integrity checks.
func NewCatalogIntegrityQueue(checker IntegrityChecker, log *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CatalogIntegrityProcessor(checker, log.Named("integrity")))
}
