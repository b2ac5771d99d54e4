// Package books provides database operations for the catalog.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/librarium-app/librarium/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book record, cover image included.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetByID retrieves a single book with its cover image.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// List returns all books in the catalog.
func (r *Repository) List() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Find(&books).Error
	return books, err
}

// UpdateDetails updates the mutable descriptive fields of a book.
func (r *Repository) UpdateDetails(id uint, description string, copiesAvailable int) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"description":      description,
		"copies_available": copiesAvailable,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetCover returns the raw cover image bytes for a book. A book without a
// cover yields an empty slice, not an error.
func (r *Repository) GetCover(id uint) ([]byte, error) {
	var book entities.Book
	err := r.db.Select("id", "image").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book.Image, nil
}
