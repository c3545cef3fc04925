package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
)

const bookInstanceResource = "Book copy"

// BookInstanceStore defines the storage operations the book instance pages
// need.
type BookInstanceStore interface {
	ListBookInstances(ctx context.Context) ([]entities.BookInstance, error)
	GetBookInstance(ctx context.Context, id string) (*entities.BookInstance, error)
	CreateBookInstance(ctx context.Context, instance *entities.BookInstance) error
	UpdateBookInstance(ctx context.Context, instance *entities.BookInstance) (*entities.BookInstance, error)
	DeleteBookInstance(ctx context.Context, id string) error
}

// BookCatalog lists the books a copy can belong to.
type BookCatalog interface {
	ListBookTitles(ctx context.Context) ([]entities.Book, error)
}

type BookInstancesController struct {
	pages
	store  BookInstanceStore
	books  BookCatalog
	binder *forms.Binder
	audit  ChangeLogger
}

func NewBookInstancesController(store BookInstanceStore, books BookCatalog, binder *forms.Binder, audit ChangeLogger, flash FlashStore) *BookInstancesController {
	return &BookInstancesController{
		pages:  pages{flash: flash},
		store:  store,
		books:  books,
		binder: binder,
		audit:  audit,
	}
}

// List shows every copy with its book.
// GET /catalog/bookinstances
func (bc *BookInstancesController) List(c *gin.Context) {
	instances, err := bc.store.ListBookInstances(c.Request.Context())
	if err != nil {
		_ = c.Error(fmt.Errorf("list book instances: %w", err))
		return
	}

	bc.render(c, "bookinstance_list", gin.H{
		"Title":         "Book Instance List",
		"BookInstances": instances,
	})
}

// Detail shows a copy with its change history.
// GET /catalog/bookinstance/:id
func (bc *BookInstancesController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, bookInstanceResource)
	if !ok {
		return
	}

	var (
		instance *entities.BookInstance
		history  []entities.AuditEvent
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		instance, err = bc.store.GetBookInstance(ctx, id)
		if err != nil {
			return lookupError(bookInstanceResource, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = changeHistory(ctx, bc.audit, "book_instance", id)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = c.Error(err)
		return
	}

	bc.render(c, "bookinstance_detail", gin.H{
		"Title":        "Copy: " + instance.Book.Title,
		"BookInstance": instance,
		"History":      history,
	})
}

// CreateForm shows an empty copy form with the book choices.
// GET /catalog/bookinstance/create
func (bc *BookInstancesController) CreateForm(c *gin.Context) {
	books, err := bc.books.ListBookTitles(c.Request.Context())
	if err != nil {
		_ = c.Error(fmt.Errorf("list book titles: %w", err))
		return
	}

	bc.renderForm(c, "Create BookInstance", books, &entities.BookInstance{Status: entities.StatusMaintenance}, "", nil)
}

// Create adds a copy. Copies are not deduplicated.
// POST /catalog/bookinstance/create
func (bc *BookInstancesController) Create(c *gin.Context) {
	var form forms.BookInstanceForm
	verrs, err := bc.binder.BindRequest(c.Request, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(verrs) > 0 {
		bc.rerenderForm(c, "Create BookInstance", form, "", verrs)
		return
	}

	instance := form.BookInstance("")
	err = bc.store.CreateBookInstance(c.Request.Context(), instance)
	logChange(bc.audit, c, entities.AuditActionCreate, "book_instance", instance.ID, instance.Imprint, err)
	if err != nil {
		_ = c.Error(fmt.Errorf("create book instance: %w", err))
		return
	}

	redirect(c, instance.URL())
}

// UpdateForm loads the copy and the book choices concurrently.
// GET /catalog/bookinstance/:id/update
func (bc *BookInstancesController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, bookInstanceResource)
	if !ok {
		return
	}

	var (
		instance *entities.BookInstance
		books    []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		instance, err = bc.store.GetBookInstance(ctx, id)
		if err != nil {
			return lookupError(bookInstanceResource, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		books, err = bc.books.ListBookTitles(ctx)
		if err != nil {
			return fmt.Errorf("list book titles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		_ = c.Error(err)
		return
	}

	bc.renderForm(c, "Update BookInstance", books, instance, instance.DueBackISO(), nil)
}

// Update replaces every field of the copy, clearing the due date when the
// field is left empty.
// POST /catalog/bookinstance/:id/update
func (bc *BookInstancesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, bookInstanceResource)
	if !ok {
		return
	}

	var form forms.BookInstanceForm
	verrs, err := bc.binder.BindRequest(c.Request, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(verrs) > 0 {
		bc.rerenderForm(c, "Update BookInstance", form, id, verrs)
		return
	}

	updated, err := bc.store.UpdateBookInstance(c.Request.Context(), form.BookInstance(id))
	logChange(bc.audit, c, entities.AuditActionUpdate, "book_instance", id, form.Imprint, err)
	if err != nil {
		_ = c.Error(lookupError(bookInstanceResource, err))
		return
	}

	redirect(c, updated.URL())
}

// GET /catalog/bookinstance/:id/delete
func (bc *BookInstancesController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, bookInstanceResource)
	if !ok {
		return
	}

	instance, err := bc.store.GetBookInstance(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(lookupError(bookInstanceResource, err))
		return
	}

	bc.render(c, "bookinstance_delete", gin.H{
		"Title":        "Delete BookInstance",
		"BookInstance": instance,
	})
}

// POST /catalog/bookinstance/:id/delete
func (bc *BookInstancesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, bookInstanceResource)
	if !ok {
		return
	}

	err := bc.store.DeleteBookInstance(c.Request.Context(), id)
	logChange(bc.audit, c, entities.AuditActionDelete, "book_instance", id, "", err)
	if err != nil {
		_ = c.Error(fmt.Errorf("delete book instance: %w", err))
		return
	}

	bc.addFlash(c, "Book copy deleted")
	redirect(c, "/catalog/bookinstances")
}

// rerenderForm shows the submitted values again together with the
// validation errors. The book choices are reloaded.
func (bc *BookInstancesController) rerenderForm(c *gin.Context, title string, form forms.BookInstanceForm, id string, verrs forms.Errors) {
	books, err := bc.books.ListBookTitles(c.Request.Context())
	if err != nil {
		_ = c.Error(fmt.Errorf("list book titles: %w", err))
		return
	}

	bc.renderForm(c, title, books, form.BookInstance(id), form.DueBack, verrs)
}

func (bc *BookInstancesController) renderForm(c *gin.Context, title string, books []entities.Book, instance *entities.BookInstance, dueBack string, verrs forms.Errors) {
	bc.render(c, "bookinstance_form", gin.H{
		"Title":        title,
		"Books":        books,
		"BookInstance": instance,
		"SelectedBook": instance.BookID,
		"DueBack":      dueBack,
		"Statuses":     entities.InstanceStatuses,
		"Errors":       verrs,
	})
}
