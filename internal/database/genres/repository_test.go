package genres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "genres.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.CreateGenre(ctx, genre))
	assert.NotEmpty(t, genre.ID)

	got, err := repo.GetGenre(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)

	_, err = repo.GetGenre(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_ListGenres(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	for _, name := range []string{"Science Fiction", "Fantasy", "Poetry"} {
		require.NoError(t, repo.CreateGenre(ctx, &entities.Genre{Name: name}))
	}

	genres, err := repo.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 3)
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, "Poetry", genres[1].Name)
	assert.Equal(t, "Science Fiction", genres[2].Name)
}

func TestRepository_FindGenreByName(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.CreateGenre(ctx, genre))

	found, err := repo.FindGenreByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, genre.ID, found.ID)

	_, err = repo.FindGenreByName(ctx, "Horror")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_UpdateGenre(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.CreateGenre(ctx, genre))

	updated, err := repo.UpdateGenre(ctx, &entities.Genre{ID: genre.ID, Name: "High Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, genre.ID, updated.ID)
	assert.Equal(t, "High Fantasy", updated.Name)

	_, err = repo.UpdateGenre(ctx, &entities.Genre{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_DeleteGenreLeavesBookReferences(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.CreateGenre(ctx, genre))
	book := entities.Book{Title: "The Hobbit", Genres: []entities.Genre{*genre}}
	require.NoError(t, db.Omit("Genres.*").Create(&book).Error)

	require.NoError(t, repo.DeleteGenre(ctx, genre.ID))

	_, err := repo.GetGenre(ctx, genre.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	var refs int64
	require.NoError(t, db.Table("book_genres").Where("genre_id = ?", genre.ID).Count(&refs).Error)
	assert.Equal(t, int64(1), refs)
}

func TestRepository_GetBooksByGenre(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)

	fantasy := &entities.Genre{Name: "Fantasy"}
	scifi := &entities.Genre{Name: "Science Fiction"}
	require.NoError(t, repo.CreateGenre(ctx, fantasy))
	require.NoError(t, repo.CreateGenre(ctx, scifi))

	for _, b := range []entities.Book{
		{Title: "The Wise Man's Fear", Genres: []entities.Genre{*fantasy}},
		{Title: "Death Wave", Genres: []entities.Genre{*scifi}},
		{Title: "The Name of the Wind", Genres: []entities.Genre{*fantasy}},
	} {
		book := b
		require.NoError(t, db.Omit("Genres.*").Create(&book).Error)
	}

	books, err := repo.GetBooksByGenre(ctx, fantasy.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "The Name of the Wind", books[0].Title)
	assert.Equal(t, "The Wise Man's Fear", books[1].Title)

	books, err = repo.GetBooksByGenre(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, books)
}
