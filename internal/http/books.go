package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/database/books"
	"github.com/librarium-app/librarium/internal/database/transactions"
	"github.com/librarium-app/librarium/internal/entities"
)

// BookStore defines the catalog operations the books controller needs.
type BookStore interface {
	Create(book *entities.Book) error
	GetByID(id uint) (*entities.Book, error)
	List() ([]entities.Book, error)
	UpdateDetails(id uint, description string, copiesAvailable int) error
	GetCover(id uint) ([]byte, error)
}

// BookDeleter runs the archival deletion protocol for a book.
type BookDeleter interface {
	DeleteBookWithArchive(bookID uint) error
}

type BooksController struct {
	store          BookStore
	deleter        BookDeleter
	maxUploadBytes int64
}

func NewBooksController(store BookStore, deleter BookDeleter, maxUploadBytes int64) *BooksController {
	return &BooksController{
		store:          store,
		deleter:        deleter,
		maxUploadBytes: maxUploadBytes,
	}
}

// bookView is the list representation: metadata plus a data-URI cover.
type bookView struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	PublishedYear   int    `json:"published_year"`
	CopiesAvailable int    `json:"copies_available"`
	Publisher       string `json:"publisher"`
	Image           any    `json:"image"`
}

func newBookView(book entities.Book) bookView {
	view := bookView{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		Genre:           book.Genre,
		Description:     book.Description,
		PublishedYear:   book.PublishedYear,
		CopiesAvailable: book.CopiesAvailable,
		Publisher:       book.Publisher,
	}
	if len(book.Image) > 0 {
		view.Image = dataURI(book.Image)
	}
	return view
}

// GetAllBooks returns the catalog with embedded cover images.
// GET /api/books
func (ctrl *BooksController) GetAllBooks(c *gin.Context) {
	all, err := ctrl.store.List()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if len(all) == 0 {
		respondNotFound(c, "No books found")
		return
	}

	views := make([]bookView, 0, len(all))
	for _, book := range all {
		views = append(views, newBookView(book))
	}

	c.JSON(http.StatusOK, views)
}

// CreateBook adds a catalog entry from a multipart form. All fields and
// the cover image are required.
// POST /api/books
func (ctrl *BooksController) CreateBook(c *gin.Context) {
	title := c.PostForm("title")
	author := c.PostForm("author")
	genre := c.PostForm("genre")
	description := c.PostForm("description")
	publisher := c.PostForm("publisher")
	publishedYearStr := c.PostForm("published_year")
	copiesStr := c.PostForm("copies_available")

	file, err := c.FormFile("image")
	if title == "" || author == "" || genre == "" || description == "" ||
		publisher == "" || publishedYearStr == "" || copiesStr == "" || err != nil {
		respondBadRequest(c, "All fields are required, including the image.")
		return
	}

	publishedYear, err := strconv.Atoi(publishedYearStr)
	if err != nil {
		respondBadRequest(c, "invalid published_year")
		return
	}
	copies, err := strconv.Atoi(copiesStr)
	if err != nil || copies < 0 {
		respondBadRequest(c, "invalid copies_available")
		return
	}

	image, err := readUpload(file, ctrl.maxUploadBytes)
	if err != nil {
		respondInternalError(c, err, "read cover upload")
		return
	}

	book := entities.Book{
		Title:           title,
		Author:          author,
		Genre:           genre,
		Description:     description,
		PublishedYear:   publishedYear,
		CopiesAvailable: copies,
		Publisher:       publisher,
		Image:           image,
	}
	if err := ctrl.store.Create(&book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Book added successfully", "bookId": book.ID})
}

type updateBookRequest struct {
	Description     *string `json:"description"`
	CopiesAvailable *int    `json:"copies_available"`
}

// UpdateBook edits the description and available-copy count.
// PUT /api/books/:id
func (ctrl *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == nil || req.CopiesAvailable == nil {
		respondBadRequest(c, "Description and copies_available are required.")
		return
	}
	if *req.CopiesAvailable < 0 {
		respondBadRequest(c, "copies_available cannot be negative")
		return
	}

	err := ctrl.store.UpdateDetails(id, *req.Description, *req.CopiesAvailable)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "Book not found.")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book details updated successfully"})
}

// DeleteBook removes a book after archiving its transaction history. A
// book with unreturned copies reports the distinct active_transaction
// status instead of deleting anything.
// DELETE /api/books/:id
func (ctrl *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.deleter.DeleteBookWithArchive(id)
	if err != nil {
		switch {
		case errors.Is(err, transactions.ErrActiveTransaction):
			c.JSON(http.StatusOK, StatusResponse{
				Status:  "active_transaction",
				Message: "Book has not been returned",
			})
		case errors.Is(err, transactions.ErrBookNotFound):
			c.JSON(http.StatusNotFound, StatusResponse{
				Status:  "not_found",
				Message: "Book not found",
			})
		default:
			respondInternalError(c, err, "delete book")
		}
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "Book and related transactions deleted successfully, and transactions moved to deleted_record",
	})
}

// GetBookCover returns the cover image as a data URI in a JSON envelope.
// GET /api/getBookCover/:bookId
func (ctrl *BooksController) GetBookCover(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	cover, err := ctrl.store.GetCover(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "No cover image found for this book")
			return
		}
		respondInternalError(c, err, "fetch book cover")
		return
	}
	if len(cover) == 0 {
		respondNotFound(c, "No cover image found for this book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": dataURI(cover)})
}
