package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
)

const genreResource = "Genre"

// GenreStore defines the storage operations the genre pages need.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenre(ctx context.Context, id string) (*entities.Genre, error)
	FindGenreByName(ctx context.Context, name string) (*entities.Genre, error)
	CreateGenre(ctx context.Context, genre *entities.Genre) error
	UpdateGenre(ctx context.Context, genre *entities.Genre) (*entities.Genre, error)
	DeleteGenre(ctx context.Context, id string) error
	GetBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
}

type GenresController struct {
	pages
	store  GenreStore
	binder *forms.Binder
	audit  ChangeLogger
}

func NewGenresController(store GenreStore, binder *forms.Binder, audit ChangeLogger, flash FlashStore) *GenresController {
	return &GenresController{
		pages:  pages{flash: flash},
		store:  store,
		binder: binder,
		audit:  audit,
	}
}

// List shows all genres sorted by name.
// GET /catalog/genres
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.store.ListGenres(c.Request.Context())
	if err != nil {
		_ = c.Error(fmt.Errorf("list genres: %w", err))
		return
	}

	gc.render(c, "genre_list", gin.H{
		"Title":  "Genre List",
		"Genres": genres,
	})
}

// Detail shows a genre with the books filed under it.
// GET /catalog/genre/:id
func (gc *GenresController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, genreResource)
	if !ok {
		return
	}

	genre, books, history, err := gc.loadWithBooks(c.Request.Context(), id, true)
	if err != nil {
		_ = c.Error(err)
		return
	}

	gc.render(c, "genre_detail", gin.H{
		"Title":   "Genre Detail",
		"Genre":   genre,
		"Books":   books,
		"History": history,
	})
}

// CreateForm shows an empty genre form.
// GET /catalog/genre/create
func (gc *GenresController) CreateForm(c *gin.Context) {
	gc.render(c, "genre_form", gin.H{
		"Title": "Create Genre",
	})
}

// Create adds a genre unless one with the same name already exists, in which
// case it redirects to the existing one.
// POST /catalog/genre/create
func (gc *GenresController) Create(c *gin.Context) {
	var form forms.GenreForm
	verrs, err := gc.binder.BindRequest(c.Request, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(verrs) > 0 {
		gc.render(c, "genre_form", gin.H{
			"Title":  "Create Genre",
			"Genre":  form.Genre(""),
			"Errors": verrs,
		})
		return
	}

	ctx := c.Request.Context()
	// Two concurrent submissions of a new name can both pass this lookup.
	existing, err := gc.store.FindGenreByName(ctx, form.Name)
	switch {
	case err == nil:
		redirect(c, existing.URL())
		return
	case !errors.Is(err, entities.ErrNotFound):
		_ = c.Error(fmt.Errorf("find genre by name: %w", err))
		return
	}

	genre := form.Genre("")
	err = gc.store.CreateGenre(ctx, genre)
	logChange(gc.audit, c, entities.AuditActionCreate, "genre", genre.ID, genre.Name, err)
	if err != nil {
		_ = c.Error(fmt.Errorf("create genre: %w", err))
		return
	}

	redirect(c, genre.URL())
}

// UpdateForm shows the genre form filled with the stored genre.
// GET /catalog/genre/:id/update
func (gc *GenresController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, genreResource)
	if !ok {
		return
	}

	genre, err := gc.store.GetGenre(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(lookupError(genreResource, err))
		return
	}

	gc.render(c, "genre_form", gin.H{
		"Title": "Update Genre",
		"Genre": genre,
	})
}

// Update replaces the genre's name.
// POST /catalog/genre/:id/update
func (gc *GenresController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, genreResource)
	if !ok {
		return
	}

	var form forms.GenreForm
	verrs, err := gc.binder.BindRequest(c.Request, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(verrs) > 0 {
		gc.render(c, "genre_form", gin.H{
			"Title":  "Update Genre",
			"Genre":  form.Genre(id),
			"Errors": verrs,
		})
		return
	}

	updated, err := gc.store.UpdateGenre(c.Request.Context(), form.Genre(id))
	logChange(gc.audit, c, entities.AuditActionUpdate, "genre", id, form.Name, err)
	if err != nil {
		_ = c.Error(lookupError(genreResource, err))
		return
	}

	redirect(c, updated.URL())
}

// DeleteForm asks for confirmation and lists the books that will keep a
// reference to the genre.
// GET /catalog/genre/:id/delete
func (gc *GenresController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, genreResource)
	if !ok {
		return
	}

	genre, books, _, err := gc.loadWithBooks(c.Request.Context(), id, false)
	if err != nil {
		_ = c.Error(err)
		return
	}

	gc.render(c, "genre_delete", gin.H{
		"Title": "Delete Genre",
		"Genre": genre,
		"Books": books,
	})
}

// Delete removes the genre. Books that referenced it are left untouched.
// POST /catalog/genre/:id/delete
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, genreResource)
	if !ok {
		return
	}

	err := gc.store.DeleteGenre(c.Request.Context(), id)
	logChange(gc.audit, c, entities.AuditActionDelete, "genre", id, "", err)
	if err != nil {
		_ = c.Error(fmt.Errorf("delete genre: %w", err))
		return
	}

	gc.addFlash(c, "Genre deleted")
	redirect(c, "/catalog/genres")
}

// loadWithBooks fetches a genre and its books concurrently, plus its change
// history when withHistory is set. The first failure cancels the other reads.
func (gc *GenresController) loadWithBooks(ctx context.Context, id string, withHistory bool) (*entities.Genre, []entities.Book, []entities.AuditEvent, error) {
	var (
		genre   *entities.Genre
		books   []entities.Book
		history []entities.AuditEvent
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genre, err = gc.store.GetGenre(ctx, id)
		if err != nil {
			return lookupError(genreResource, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		books, err = gc.store.GetBooksByGenre(ctx, id)
		if err != nil {
			return fmt.Errorf("list genre books: %w", err)
		}
		return nil
	})
	if withHistory {
		g.Go(func() error {
			var err error
			history, err = changeHistory(ctx, gc.audit, "genre", id)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return genre, books, history, nil
}
