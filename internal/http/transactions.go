package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/database/transactions"
	"github.com/librarium-app/librarium/internal/entities"
)

// Ledger defines the loan operations the transactions controller needs.
// The open loans in the transactions table are the source of truth; the
// store keeps copies_available in lockstep inside its own transactions.
type Ledger interface {
	Borrow(memberID, bookID uint) (*entities.Transaction, error)
	Return(memberID, bookID uint) (*entities.Transaction, error)
	BorrowedBooks(memberID uint) ([]entities.Book, error)
}

type TransactionsController struct {
	ledger Ledger
}

func NewTransactionsController(ledger Ledger) *TransactionsController {
	return &TransactionsController{ledger: ledger}
}

type loanRequest struct {
	MemberID uint `json:"memberId"`
	BookID   uint `json:"bookId"`
}

// BorrowBook opens a loan for the member on the book. Capacity and the
// one-open-loan-per-pair rule are enforced atomically by the store, so a
// losing racer gets a clean conflict instead of a negative copy count.
// POST /api/borrowBook
func (ctrl *TransactionsController) BorrowBook(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MemberID == 0 || req.BookID == 0 {
		respondBadRequest(c, "memberId and bookId are required")
		return
	}

	tr, err := ctrl.ledger.Borrow(req.MemberID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, transactions.ErrMemberNotFound):
			respondNotFound(c, "Member not found.")
		case errors.Is(err, transactions.ErrBookNotFound):
			respondNotFound(c, "Book not found.")
		case errors.Is(err, transactions.ErrNoCopiesAvailable):
			respondConflict(c, "No copies available to borrow.")
		case errors.Is(err, transactions.ErrAlreadyBorrowed):
			respondConflict(c, "You have already borrowed this book.")
		default:
			respondInternalError(c, err, "borrow book")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Book borrowed successfully",
		"transactionId": tr.ID,
	})
}

// ReturnBook closes the open loan for the member/book pair and restores
// the copy.
// POST /api/returnBook
func (ctrl *TransactionsController) ReturnBook(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MemberID == 0 || req.BookID == 0 {
		respondBadRequest(c, "memberId and bookId are required")
		return
	}

	_, err := ctrl.ledger.Return(req.MemberID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, transactions.ErrNoOpenLoan):
			respondNotFound(c, "No borrowed transaction found")
		default:
			respondInternalError(c, err, "return book")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book returned successfully"})
}

// BorrowedBooks lists the books the member currently holds.
// GET /api/borrowedBooks/:memberId
func (ctrl *TransactionsController) BorrowedBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	books, err := ctrl.ledger.BorrowedBooks(id)
	if err != nil {
		respondInternalError(c, err, "list borrowed books")
		return
	}

	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, newBookView(b))
	}
	c.JSON(http.StatusOK, views)
}
