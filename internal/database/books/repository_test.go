package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/librarium-app/librarium/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genre:           "SF",
		Description:     "Spice and sandworms",
		PublishedYear:   1965,
		CopiesAvailable: 3,
		Publisher:       "Chilton",
		Image:           []byte{0x89, 0x50, 0x4e, 0x47},
	}

	require.NoError(t, repo.Create(book))
	assert.NotZero(t, book.ID)

	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 3, got.CopiesAvailable)
	assert.Equal(t, book.Image, got.Image)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Book{Title: "Dune", Author: "Herbert"}))
	require.NoError(t, repo.Create(&entities.Book{Title: "Hyperion", Author: "Simmons"}))

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_UpdateDetails(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "Dune", Description: "old", CopiesAvailable: 1}
	require.NoError(t, repo.Create(book))

	require.NoError(t, repo.UpdateDetails(book.ID, "new description", 5))

	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "new description", got.Description)
	assert.Equal(t, 5, got.CopiesAvailable)
	// Other fields are untouched
	assert.Equal(t, "Dune", got.Title)
}

func TestRepository_UpdateDetails_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateDetails(999, "x", 1)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_GetCover(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	cover := []byte{0x89, 0x50, 0x4e, 0x47}
	book := &entities.Book{Title: "Dune", Image: cover}
	require.NoError(t, repo.Create(book))

	got, err := repo.GetCover(book.ID)
	require.NoError(t, err)
	assert.Equal(t, cover, got)
}

func TestRepository_GetCover_NoImage(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "Plain"}
	require.NoError(t, repo.Create(book))

	got, err := repo.GetCover(book.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
