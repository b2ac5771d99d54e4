package archive

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/librarium-app/librarium/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_archive_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ArchivedTransaction{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func archiveRow(t *testing.T, db *gorm.DB, id, memberID, bookID uint) {
	t.Helper()
	row := entities.ArchivedTransaction{
		ID:         id,
		MemberID:   memberID,
		BookID:     bookID,
		BorrowDate: time.Now().Add(-72 * time.Hour),
		Status:     entities.StatusReturned,
		ArchivedAt: time.Now(),
	}
	require.NoError(t, db.Create(&row).Error)
}

func TestRepository_List(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	archiveRow(t, db, 3, 1, 10)
	archiveRow(t, db, 1, 2, 10)
	archiveRow(t, db, 2, 1, 11)

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by the original transaction ID
	assert.Equal(t, uint(1), all[0].ID)
	assert.Equal(t, uint(2), all[1].ID)
	assert.Equal(t, uint(3), all[2].ID)
}

func TestRepository_ListForBook(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	archiveRow(t, db, 1, 1, 10)
	archiveRow(t, db, 2, 2, 11)
	archiveRow(t, db, 3, 3, 10)

	got, err := repo.ListForBook(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
}

func TestRepository_ListForMember(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	archiveRow(t, db, 1, 1, 10)
	archiveRow(t, db, 2, 2, 11)

	got, err := repo.ListForMember(2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(11), got[0].BookID)
}
