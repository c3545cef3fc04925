package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/tasks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Database.LogLevel = "silent"
	return cfg
}

func testTaskConfig(t *testing.T, schedule string) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	defaults := tasks.DefaultConfig()
	cfg.Tasks.Enabled = true
	cfg.Tasks.Workers = defaults.Workers
	cfg.Tasks.ReleaseAfter = defaults.ReleaseAfter
	cfg.Tasks.CleanupInterval = defaults.CleanupInterval
	cfg.Integrity.Schedule = schedule
	return cfg
}

func TestSeedThenCheckIntegrity(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	require.NoError(t, Seed(ctx, cfg, zap.NewNop()))
	// Seeding twice is harmless.
	require.NoError(t, Seed(ctx, cfg, zap.NewNop()))

	report, err := CheckIntegrity(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestCheckIntegrity_EmptyDatabase(t *testing.T) {
	report, err := CheckIntegrity(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.Zero(t, report.DanglingGenreRefs)
	assert.Zero(t, report.OrphanedInstances)
}

func TestEnqueueIntegrityCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("queued check runs on the server's workers", func(t *testing.T) {
		cfg := testTaskConfig(t, "0 * * * *")
		require.NoError(t, Seed(ctx, cfg, zap.NewNop()))

		require.NoError(t, EnqueueIntegrityCheck(ctx, cfg, zap.NewNop()))

		db, err := OpenDatabase(cfg)
		require.NoError(t, err)
		defer db.Close()

		core, logs := observer.New(zapcore.InfoLevel)
		worker, err := tasks.NewClient(cfg.Database.Path, taskConfig(cfg), zap.NewNop())
		require.NoError(t, err)
		defer worker.Close()
		worker.Register(tasks.NewCatalogIntegrityQueue(db, zap.New(core)))

		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go worker.Start(workerCtx)

		assert.Eventually(t, func() bool {
			return logs.FilterMessage("catalog integrity check passed").Len() == 1
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("fails when the task queue is disabled", func(t *testing.T) {
		assert.Error(t, EnqueueIntegrityCheck(ctx, testConfig(t), zap.NewNop()))
	})

	t.Run("fails on an invalid schedule", func(t *testing.T) {
		cfg := testTaskConfig(t, "whenever")

		assert.Error(t, EnqueueIntegrityCheck(ctx, cfg, zap.NewNop()))
	})
}
