package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
	"github.com/mrlokans/locallibrary/internal/logging"
	"github.com/mrlokans/locallibrary/internal/middleware"
)

// TemplateFuncs are the helpers available to every view.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"statusClass": func(s entities.InstanceStatus) string {
			switch s {
			case entities.StatusAvailable:
				return "status-available"
			case entities.StatusMaintenance:
				return "status-maintenance"
			default:
				return "status-other"
			}
		},
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(logging.RequestLogger(cfg.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CSRF must run before the session so the session context is layered
	// on top of the request CSRF replaces.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(middleware.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	var flash FlashStore
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		flash = cfg.SessionManager
	}

	router.Use(ErrorHandler(cfg.Logger.Named("http")))

	tmpl := template.Must(template.New("").Funcs(TemplateFuncs()).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)
	router.Static("/static", cfg.StaticPath)

	health := NewHealthController(cfg.Database, cfg.Maintenance, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	binder := forms.NewBinder()
	registerCatalogRoutes(
		router,
		NewGenresController(cfg.Genres, binder, cfg.Audit, flash),
		NewBookInstancesController(cfg.BookInstances, cfg.Books, binder, cfg.Audit, flash),
	)

	return router
}

func registerCatalogRoutes(router *gin.Engine, genres *GenresController, instances *BookInstancesController) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog/genres")
	})

	catalog := router.Group("/catalog")

	catalog.GET("/genres", genres.List)
	catalog.GET("/genre/create", genres.CreateForm)
	catalog.POST("/genre/create", genres.Create)
	catalog.GET("/genre/:id", genres.Detail)
	catalog.GET("/genre/:id/update", genres.UpdateForm)
	catalog.POST("/genre/:id/update", genres.Update)
	catalog.GET("/genre/:id/delete", genres.DeleteForm)
	catalog.POST("/genre/:id/delete", genres.Delete)

	catalog.GET("/bookinstances", instances.List)
	catalog.GET("/bookinstance/create", instances.CreateForm)
	catalog.POST("/bookinstance/create", instances.Create)
	catalog.GET("/bookinstance/:id", instances.Detail)
	catalog.GET("/bookinstance/:id/update", instances.UpdateForm)
	catalog.POST("/bookinstance/:id/update", instances.Update)
	catalog.GET("/bookinstance/:id/delete", instances.DeleteForm)
	catalog.POST("/bookinstance/:id/delete", instances.Delete)
}
