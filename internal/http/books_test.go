package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarium-app/librarium/internal/database/books"
	"github.com/librarium-app/librarium/internal/database/transactions"
	"github.com/librarium-app/librarium/internal/entities"
)

type mockBookStore struct {
	books      []entities.Book
	created    *entities.Book
	updatedID  uint
	listErr    error
	createErr  error
	updateErr  error
	cover      []byte
	coverErr   error
}

func (m *mockBookStore) Create(book *entities.Book) error {
	if m.createErr != nil {
		return m.createErr
	}
	book.ID = 42
	m.created = book
	return nil
}

func (m *mockBookStore) GetByID(id uint) (*entities.Book, error) {
	for i := range m.books {
		if m.books[i].ID == id {
			return &m.books[i], nil
		}
	}
	return nil, books.ErrBookNotFound
}

func (m *mockBookStore) List() ([]entities.Book, error) {
	return m.books, m.listErr
}

func (m *mockBookStore) UpdateDetails(id uint, description string, copiesAvailable int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedID = id
	return nil
}

func (m *mockBookStore) GetCover(id uint) ([]byte, error) {
	return m.cover, m.coverErr
}

type mockBookDeleter struct {
	deletedID uint
	err       error
}

func (m *mockBookDeleter) DeleteBookWithArchive(bookID uint) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = bookID
	return nil
}

func newBooksTestRouter(store *mockBookStore, deleter *mockBookDeleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewBooksController(store, deleter, 10<<20)

	router := gin.New()
	router.GET("/api/books", controller.GetAllBooks)
	router.POST("/api/books", controller.CreateBook)
	router.PUT("/api/books/:id", controller.UpdateBook)
	router.DELETE("/api/books/:id", controller.DeleteBook)
	router.GET("/api/getBookCover/:bookId", controller.GetBookCover)
	return router
}

func TestGetAllBooks(t *testing.T) {
	store := &mockBookStore{books: []entities.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", CopiesAvailable: 3, Image: []byte{1, 2, 3}},
		{ID: 2, Title: "Hyperion", Author: "Simmons", CopiesAvailable: 1},
	}}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	req, _ := http.NewRequest("GET", "/api/books", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "Dune", views[0]["title"])

	// Covers come back as embeddable data URIs, or null when absent
	image, _ := views[0]["image"].(string)
	assert.True(t, strings.HasPrefix(image, "data:image/png;base64,"))
	assert.Nil(t, views[1]["image"])
}

func TestGetAllBooks_EmptyCatalog(t *testing.T) {
	router := newBooksTestRouter(&mockBookStore{}, &mockBookDeleter{})

	req, _ := http.NewRequest("GET", "/api/books", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No books found")
}

func multipartBookForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "cover.png")
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func completeBookFields() map[string]string {
	return map[string]string{
		"title":            "Dune",
		"author":           "Herbert",
		"genre":            "SF",
		"description":      "Sandworms",
		"publisher":        "Chilton",
		"published_year":   "1965",
		"copies_available": "3",
	}
}

func TestCreateBook(t *testing.T) {
	store := &mockBookStore{}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	body, contentType := multipartBookForm(t, completeBookFields(), true)
	req, _ := http.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "Dune", store.created.Title)
	assert.Equal(t, 3, store.created.CopiesAvailable)
	assert.NotEmpty(t, store.created.Image)
	assert.Contains(t, w.Body.String(), "Book added successfully")
}

func TestCreateBook_MissingImage(t *testing.T) {
	store := &mockBookStore{}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	body, contentType := multipartBookForm(t, completeBookFields(), false)
	req, _ := http.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "All fields are required, including the image.")
	assert.Nil(t, store.created)
}

func TestCreateBook_MissingField(t *testing.T) {
	store := &mockBookStore{}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	fields := completeBookFields()
	delete(fields, "author")
	body, contentType := multipartBookForm(t, fields, true)
	req, _ := http.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBook(t *testing.T) {
	store := &mockBookStore{}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	payload := `{"description": "New description", "copies_available": 7}`
	req, _ := http.NewRequest("PUT", "/api/books/5", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, store.updatedID)
}

func TestUpdateBook_MissingFields(t *testing.T) {
	router := newBooksTestRouter(&mockBookStore{}, &mockBookDeleter{})

	// copies_available absent entirely; zero would be a legal value, so
	// the handler distinguishes missing from zero via pointer binding
	req, _ := http.NewRequest("PUT", "/api/books/5", strings.NewReader(`{"description": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Description and copies_available are required.")
}

func TestUpdateBook_NotFound(t *testing.T) {
	store := &mockBookStore{updateErr: books.ErrBookNotFound}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	payload := `{"description": "x", "copies_available": 1}`
	req, _ := http.NewRequest("PUT", "/api/books/99", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBook(t *testing.T) {
	deleter := &mockBookDeleter{}
	router := newBooksTestRouter(&mockBookStore{}, deleter)

	req, _ := http.NewRequest("DELETE", "/api/books/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 7, deleter.deletedID)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
}

func TestDeleteBook_ActiveTransaction(t *testing.T) {
	deleter := &mockBookDeleter{err: transactions.ErrActiveTransaction}
	router := newBooksTestRouter(&mockBookStore{}, deleter)

	req, _ := http.NewRequest("DELETE", "/api/books/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The refusal is a distinct outcome, not an error status
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "active_transaction", resp.Status)
	assert.Equal(t, "Book has not been returned", resp.Message)
}

func TestDeleteBook_NotFound(t *testing.T) {
	deleter := &mockBookDeleter{err: transactions.ErrBookNotFound}
	router := newBooksTestRouter(&mockBookStore{}, deleter)

	req, _ := http.NewRequest("DELETE", "/api/books/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Status)
}

func TestGetBookCover(t *testing.T) {
	store := &mockBookStore{cover: []byte{1, 2, 3}}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	req, _ := http.NewRequest("GET", "/api/getBookCover/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["image"], "data:image/png;base64,"))
}

func TestGetBookCover_NoImage(t *testing.T) {
	store := &mockBookStore{cover: nil}
	router := newBooksTestRouter(store, &mockBookDeleter{})

	req, _ := http.NewRequest("GET", "/api/getBookCover/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No cover image found for this book")
}
