package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-bookshelf/internal/errors"
	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/service"
)

// Входные/выходные модели book-эндпойнтов.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        int    `json:"year"`
	Description string `json:"description"`
}

type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Description *string `json:"description,omitempty"`
}

type BookResponse struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"` // Unix UTC
	UpdatedAt   int64  `json:"updated_at"` // Unix UTC
}

func bookResponse(book *models.Book) BookResponse {
	return BookResponse{
		UID:         book.ID.String(),
		Title:       book.Title,
		Author:      book.Author,
		Year:        book.Year,
		Description: book.Description,
		CreatedAt:   book.CreatedAt.Unix(),
		UpdatedAt:   book.UpdatedAt.Unix(),
	}
}

// CreateBook создаёт новую книгу.
func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	var in CreateBookRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	book, err := h.Service.CreateBook(r.Context(), service.CreateBookInput{
		Title:       in.Title,
		Author:      in.Author,
		Year:        in.Year,
		Description: in.Description,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookResponse(book))
}

// ListBooks возвращает страницу книг.
func (h *Handlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	books, err := h.Service.ListBooks(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, bookResponse(&books[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetBook возвращает книгу по ID.
func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	book, err := h.Service.BookByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookResponse(book))
}

// UpdateBook выполняет частичный апдейт книги.
func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateBookRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	book, err := h.Service.UpdateBook(r.Context(), id, service.UpdateBookInput{
		Title:       in.Title,
		Author:      in.Author,
		Year:        in.Year,
		Description: in.Description,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookResponse(book))
}

// DeleteBook удаляет книгу по ID.
func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.DeleteBook(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
