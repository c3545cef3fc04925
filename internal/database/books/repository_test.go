package books

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSortByTitle(t *testing.T) {
	books := []entities.Book{
		{Title: "zebra"},
		{Title: "Émile"},
		{Title: "apes and Angels"},
		{Title: "Death Wave"},
		{Title: "Emma"},
	}

	SortByTitle(books, language.English)

	assert.Equal(t, []string{"apes and Angels", "Death Wave", "Émile", "Emma", "zebra"}, titles(books))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, "fr", ParseLocale("fr").String())
	assert.Equal(t, "en", ParseLocale("not a locale!").String())
}

func TestRepository_ListBookTitles(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db, language.English)

	for _, title := range []string{"death Wave", "Apes and Angels", "The Name of the Wind"} {
		require.NoError(t, db.Create(&entities.Book{Title: title, Author: "someone", Summary: "long text"}).Error)
	}

	books, err := repo.ListBookTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apes and Angels", "death Wave", "The Name of the Wind"}, titles(books))
	for _, b := range books {
		assert.NotEmpty(t, b.ID)
		assert.Empty(t, b.Summary, "only id and title are selected")
	}
}
