package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookworm/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	// All catalog tables should exist after migration.
	for _, table := range []string{"book", "author", "author_book", "books_read", "app_user"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	summary := "A farm is taken over by its overworked animals."
	book := &entities.Book{ISBN: "9780452284241", Name: "Animal Farm", Summary: &summary}
	require.NoError(t, db.DB.Create(book).Error)

	author := &entities.Author{ID: 1, Name: "George Orwell"}
	require.NoError(t, db.DB.Create(author).Error)
	require.NoError(t, db.DB.Create(&entities.AuthorBook{AuthorID: 1, BookISBN: book.ISBN}).Error)

	var got entities.Book
	err = db.DB.Preload("AuthorBooks.Author").First(&got, "isbn = ?", book.ISBN).Error
	require.NoError(t, err)
	require.Len(t, got.AuthorBooks, 1)
	assert.Equal(t, "George Orwell", got.AuthorBooks[0].Author.Name)
}
