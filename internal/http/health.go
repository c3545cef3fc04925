package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/database"
)

// MaintenanceStatus reports the schedule of the background jobs.
type MaintenanceStatus interface {
	IsRunning() bool
	NextRuns() map[string]time.Time
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Time        string                 `json:"time"`
	Version     string                 `json:"version,omitempty"`
	Checks      map[string]string      `json:"checks"`
	Catalog     *database.CatalogStats `json:"catalog,omitempty"`
	Maintenance *MaintenanceHealth     `json:"maintenance,omitempty"`
}

type MaintenanceHealth struct {
	Running  bool              `json:"running"`
	NextRuns map[string]string `json:"next_runs,omitempty"`
}

type HealthController struct {
	db          *database.Database
	maintenance MaintenanceStatus
	version     string
}

// NewHealthController builds the health endpoints. maintenance may be nil
// when background jobs are disabled.
func NewHealthController(db *database.Database, maintenance MaintenanceStatus, version string) *HealthController {
	return &HealthController{db: db, maintenance: maintenance, version: version}
}

// Status reports whether the catalog database answers, with table counts
// when it does.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": "not configured"},
	}

	if h.maintenance != nil {
		resp.Maintenance = maintenanceHealth(h.maintenance)
	}

	if h.db != nil {
		stats, err := h.checkDatabase(c.Request.Context())
		if err != nil {
			resp.Status = "unhealthy"
			resp.Checks["database"] = "error: " + err.Error()
			c.IndentedJSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp.Checks["database"] = "ok"
		resp.Catalog = &stats
	}

	c.IndentedJSON(http.StatusOK, resp)
}

func (h *HealthController) checkDatabase(ctx context.Context) (database.CatalogStats, error) {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return database.CatalogStats{}, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return database.CatalogStats{}, err
	}
	return h.db.Stats(ctx)
}

func maintenanceHealth(m MaintenanceStatus) *MaintenanceHealth {
	health := &MaintenanceHealth{Running: m.IsRunning()}
	if runs := m.NextRuns(); len(runs) > 0 {
		health.NextRuns = make(map[string]string, len(runs))
		for name, next := range runs {
			health.NextRuns[name] = next.Format(time.RFC3339)
		}
	}
	return health
}

// Ping is a liveness probe that never touches the database.
// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
