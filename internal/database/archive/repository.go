// Package archive provides read access to transactions retained after
// their parent book or member was deleted. Rows are written once, by the
// ledger's delete-with-archive protocol, and never modified here.
package archive

import (
	"gorm.io/gorm"

	"github.com/librarium-app/librarium/internal/entities"
)

// Repository reads the deleted_records table.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new archive repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every archived transaction.
func (r *Repository) List() ([]entities.ArchivedTransaction, error) {
	var all []entities.ArchivedTransaction
	err := r.db.Order("id ASC").Find(&all).Error
	return all, err
}

// ListForBook returns the archived transactions of a deleted book.
func (r *Repository) ListForBook(bookID uint) ([]entities.ArchivedTransaction, error) {
	var all []entities.ArchivedTransaction
	err := r.db.Where("book_id = ?", bookID).Order("id ASC").Find(&all).Error
	return all, err
}

// ListForMember returns the archived transactions of a deleted member.
func (r *Repository) ListForMember(memberID uint) ([]entities.ArchivedTransaction, error) {
	var all []entities.ArchivedTransaction
	err := r.db.Where("member_id = ?", memberID).Order("id ASC").Find(&all).Error
	return all, err
}
