// Package transactions implements the borrow/return ledger.
//
// Open rows (return_date IS NULL) are the source of truth for which books
// are currently out; books.copies_available is a derived counter kept in
// lockstep inside the same database transaction as every ledger write.
package transactions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/librarium-app/librarium/internal/entities"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNoCopiesAvailable = errors.New("no copies available to borrow")
	ErrAlreadyBorrowed   = errors.New("member already has this book on loan")
	ErrNoOpenLoan        = errors.New("no borrowed transaction found")
	ErrActiveTransaction = errors.New("entity has unreturned transactions")
)

// Repository handles ledger and archive database operations.
type Repository struct {
	db         *gorm.DB
	loanPeriod time.Duration
}

// NewRepository creates a new ledger repository. loanPeriod sets the due
// date (max_borrow) on new loans.
func NewRepository(db *gorm.DB, loanPeriod time.Duration) *Repository {
	return &Repository{db: db, loanPeriod: loanPeriod}
}

// Borrow records a loan of bookID to memberID.
//
// The copy counter is claimed with a conditional decrement
// (copies_available > 0 in the WHERE clause), so two simultaneous borrows
// of the last copy cannot drive the counter negative: whichever update
// matches zero rows loses and the whole transaction rolls back.
func (r *Repository) Borrow(memberID, bookID uint) (*entities.Transaction, error) {
	var loan *entities.Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var member entities.Member
		if err := tx.Select("id").First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		var book entities.Book
		if err := tx.Select("id").First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		// At most one open loan per (member, book) pair.
		var open int64
		err := tx.Model(&entities.Transaction{}).
			Where("member_id = ? AND book_id = ? AND return_date IS NULL", memberID, bookID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyBorrowed
		}

		result := tx.Model(&entities.Book{}).
			Where("id = ? AND copies_available > 0", bookID).
			UpdateColumn("copies_available", gorm.Expr("copies_available - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoCopiesAvailable
		}

		now := time.Now()
		loan = &entities.Transaction{
			MemberID:   memberID,
			BookID:     bookID,
			BorrowDate: now,
			Status:     entities.StatusBorrowed,
			MaxBorrow:  now.Add(r.loanPeriod),
		}
		return tx.Create(loan).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Return closes the open loan for the (member, book) pair and hands the
// copy back to the catalog. Missing open loan leaves all state untouched.
func (r *Repository) Return(memberID, bookID uint) (*entities.Transaction, error) {
	var loan entities.Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("member_id = ? AND book_id = ? AND return_date IS NULL", memberID, bookID).
			First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenLoan
			}
			return err
		}

		now := time.Now()
		err = tx.Model(&entities.Transaction{}).Where("id = ?", loan.ID).Updates(map[string]any{
			"return_date": now,
			"status":      entities.StatusReturned,
		}).Error
		if err != nil {
			return err
		}
		loan.ReturnDate = &now
		loan.Status = entities.StatusReturned

		return tx.Model(&entities.Book{}).
			Where("id = ?", bookID).
			UpdateColumn("copies_available", gorm.Expr("copies_available + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// DeleteBookWithArchive removes a book together with its transaction
// history: the history is copied into deleted_records, removed from the
// ledger, and the book row deleted, all in one database transaction so a
// failure cannot leave archived-but-not-deleted state behind.
//
// A book with any open loan is refused with ErrActiveTransaction and
// nothing is mutated.
func (r *Repository) DeleteBookWithArchive(bookID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := refuseIfOpen(tx, "book_id = ?", bookID); err != nil {
			return err
		}
		if err := archiveAndDelete(tx, "book_id = ?", bookID); err != nil {
			return err
		}

		result := tx.Delete(&entities.Book{}, bookID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBookNotFound
		}
		return nil
	})
}

// DeleteMemberWithArchive removes a member and archives their transaction
// history, with the same all-or-nothing protocol as book deletion.
func (r *Repository) DeleteMemberWithArchive(memberID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := refuseIfOpen(tx, "member_id = ?", memberID); err != nil {
			return err
		}
		if err := archiveAndDelete(tx, "member_id = ?", memberID); err != nil {
			return err
		}

		result := tx.Delete(&entities.Member{}, memberID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return nil
	})
}

// BorrowedBooks returns the books a member currently has out.
func (r *Repository) BorrowedBooks(memberID uint) ([]entities.Book, error) {
	var out []entities.Book
	err := r.db.Model(&entities.Book{}).
		Joins("JOIN transactions ON transactions.book_id = books.id").
		Where("transactions.member_id = ? AND transactions.return_date IS NULL AND transactions.status = ?",
			memberID, entities.StatusBorrowed).
		Find(&out).Error
	return out, err
}

// OpenLoanCount returns the number of open transactions for a book.
func (r *Repository) OpenLoanCount(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Transaction{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error
	return count, err
}

// All returns every row in the live ledger.
func (r *Repository) All() ([]entities.Transaction, error) {
	var all []entities.Transaction
	err := r.db.Order("id ASC").Find(&all).Error
	return all, err
}

func refuseIfOpen(tx *gorm.DB, cond string, arg uint) error {
	var open int64
	err := tx.Model(&entities.Transaction{}).
		Where(cond, arg).Where("return_date IS NULL").
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrActiveTransaction
	}
	return nil
}

func archiveAndDelete(tx *gorm.DB, cond string, arg uint) error {
	var history []entities.Transaction
	if err := tx.Where(cond, arg).Find(&history).Error; err != nil {
		return err
	}

	if len(history) > 0 {
		now := time.Now()
		archived := make([]entities.ArchivedTransaction, 0, len(history))
		for _, t := range history {
			archived = append(archived, t.Archive(now))
		}
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
	}

	return tx.Where(cond, arg).Delete(&entities.Transaction{}).Error
}
