package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/database/bookinstances"
	"github.com/mrlokans/locallibrary/internal/database/books"
	"github.com/mrlokans/locallibrary/internal/database/genres"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testTemplates render just enough of each view to assert on.
const testTemplates = `
{{define "genre_list"}}{{.Title}}|{{range .Genres}}[{{.Name}}]{{end}}|{{with .Flash}}flash:{{.}}{{end}}{{end}}
{{define "genre_detail"}}{{.Title}}|{{.Genre.Name}}|{{range .Books}}[{{.Title}}]{{end}}{{range .History}}|{{.Action}}:{{.Status}}{{end}}{{end}}
{{define "genre_form"}}{{.Title}}|{{with .Genre}}{{.Name}}{{end}}|{{range .Errors}}err:{{.Field}}={{.Message}};{{end}}{{end}}
{{define "genre_delete"}}{{.Title}}|{{.Genre.Name}}|{{range .Books}}[{{.Title}}]{{end}}{{end}}
{{define "bookinstance_list"}}{{.Title}}|{{range .BookInstances}}[{{.Book.Title}}:{{.Imprint}}:{{.Status}}]{{end}}|{{with .Flash}}flash:{{.}}{{end}}{{end}}
{{define "bookinstance_detail"}}{{.Title}}|{{.BookInstance.Imprint}}|{{.BookInstance.Status}}|{{.BookInstance.DueBackFormatted}}{{range .History}}|{{.Action}}:{{.Status}}{{end}}{{end}}
{{define "bookinstance_form"}}{{.Title}}|{{range .Books}}[{{.Title}}]{{end}}|selected:{{.SelectedBook}}|imprint:{{.BookInstance.Imprint}}|due:{{.DueBack}}|{{range .Errors}}err:{{.Field}}={{.Message}};{{end}}{{end}}
{{define "bookinstance_delete"}}{{.Title}}|{{.BookInstance.Imprint}}{{end}}
{{define "error"}}{{.Status}}|{{.Message}}{{end}}
`

// recordingAudit collects logged changes.
type recordingAudit struct {
	mu         sync.Mutex
	changes    []recordedChange
	historyErr error
}

type recordedChange struct {
	action     entities.AuditAction
	entityType string
	entityID   string
	failed     bool
}

func (r *recordingAudit) LogChange(action entities.AuditAction, entityType, entityID, description, ipAddr string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, recordedChange{action: action, entityType: entityType, entityID: entityID, failed: err != nil})
}

func (r *recordingAudit) History(_ context.Context, entityType, entityID string) ([]entities.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.historyErr != nil {
		return nil, r.historyErr
	}
	var events []entities.AuditEvent
	for i := len(r.changes) - 1; i >= 0; i-- {
		ch := r.changes[i]
		if ch.entityType != entityType || ch.entityID != entityID {
			continue
		}
		status := entities.AuditStatusSuccess
		if ch.failed {
			status = entities.AuditStatusFailed
		}
		events = append(events, entities.AuditEvent{EntityType: ch.entityType, EntityID: ch.entityID, Action: ch.action, Status: status})
	}
	return events, nil
}

func (r *recordingAudit) all() []recordedChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedChange(nil), r.changes...)
}

// memoryFlash is a FlashStore that ignores the request.
type memoryFlash struct {
	mu  sync.Mutex
	msg string
}

func (f *memoryFlash) Flash(_ context.Context, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msg = msg
}

func (f *memoryFlash) PopFlash(_ context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.msg
	f.msg = ""
	return msg
}

type catalogEnv struct {
	db        *database.Database
	genres    *genres.Repository
	instances *bookinstances.Repository
	books     *books.Repository
	audit     *recordingAudit
	flash     *memoryFlash
	router    *gin.Engine
}

func newTestEngine() *gin.Engine {
	return newTestEngineWithLogger(zap.NewNop())
}

func newTestEngineWithLogger(log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(log))
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(TemplateFuncs()).Parse(testTemplates)))
	return router
}

// setupCatalog wires both controllers to a fresh SQLite catalog.
func setupCatalog(t *testing.T) *catalogEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &catalogEnv{
		db:        db,
		genres:    genres.NewRepository(db.DB),
		instances: bookinstances.NewRepository(db.DB),
		books:     books.NewRepository(db.DB, books.ParseLocale("en")),
		audit:     &recordingAudit{},
		flash:     &memoryFlash{},
		router:    newTestEngine(),
	}

	binder := forms.NewBinder()
	registerCatalogRoutes(
		env.router,
		NewGenresController(env.genres, binder, env.audit, env.flash),
		NewBookInstancesController(env.instances, env.books, binder, env.audit, env.flash),
	)
	return env
}

// seedBook stores a book filed under the given genres.
func (env *catalogEnv) seedBook(t *testing.T, title string, genreList ...entities.Genre) entities.Book {
	t.Helper()
	book := entities.Book{Title: title, Author: "Author", Genres: genreList}
	require.NoError(t, env.db.DB.Omit("Genres.*").Create(&book).Error)
	return book
}

func (env *catalogEnv) seedGenre(t *testing.T, name string) entities.Genre {
	t.Helper()
	genre := entities.Genre{Name: name}
	require.NoError(t, env.genres.CreateGenre(context.Background(), &genre))
	return genre
}

func (env *catalogEnv) get(path string) *httptest.ResponseRecorder {
	return serve(env.router, http.MethodGet, path, nil)
}

func (env *catalogEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	return serve(env.router, http.MethodPost, path, form)
}

func serve(router http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var errStorage = errors.New("storage unavailable")

// failingGenreStore returns canned results so error paths can be forced.
type failingGenreStore struct {
	genre    *entities.Genre
	genreErr error
	books    []entities.Book
	booksErr error
	err      error

	mu    sync.Mutex
	calls []string
}

func (s *failingGenreStore) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *failingGenreStore) called(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (s *failingGenreStore) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	s.record("ListGenres")
	return nil, s.err
}

func (s *failingGenreStore) GetGenre(ctx context.Context, id string) (*entities.Genre, error) {
	s.record("GetGenre")
	return s.genre, s.genreErr
}

func (s *failingGenreStore) FindGenreByName(ctx context.Context, name string) (*entities.Genre, error) {
	s.record("FindGenreByName")
	return nil, s.err
}

func (s *failingGenreStore) CreateGenre(ctx context.Context, genre *entities.Genre) error {
	s.record("CreateGenre")
	return s.err
}

func (s *failingGenreStore) UpdateGenre(ctx context.Context, genre *entities.Genre) (*entities.Genre, error) {
	s.record("UpdateGenre")
	return nil, s.err
}

func (s *failingGenreStore) DeleteGenre(ctx context.Context, id string) error {
	s.record("DeleteGenre")
	return s.err
}

func (s *failingGenreStore) GetBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	s.record("GetBooksByGenre")
	return s.books, s.booksErr
}

func newFailingGenreRouter(store GenreStore) *gin.Engine {
	router := newTestEngine()
	registerCatalogRoutes(
		router,
		NewGenresController(store, forms.NewBinder(), nil, nil),
		NewBookInstancesController(nil, nil, forms.NewBinder(), nil, nil),
	)
	return router
}
