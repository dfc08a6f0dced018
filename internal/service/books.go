package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/storage"
)

type CreateBookInput struct {
	Title       string
	Author      string
	Year        int
	Description string
}

// UpdateBookInput — частичный апдейт: обновляются только поля,
// для которых задан указатель.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	Year        *int
	Description *string
}

// CreateBook создаёт новую книгу.
func (s *Service) CreateBook(ctx context.Context, input CreateBookInput) (*models.Book, error) {
	const op = "service.books.CreateBook"

	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	now := time.Now().UTC()
	book := &models.Book{
		ID:          uuid.New(),
		Title:       title,
		Author:      author,
		Year:        input.Year,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return book, nil
}

// BookByID возвращает книгу по идентификатору.
func (s *Service) BookByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	const op = "service.books.BookByID"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	book, err := s.storage.BookByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return book, nil
}

// ListBooks возвращает страницу книг, новые — первыми.
func (s *Service) ListBooks(ctx context.Context, opts storage.ListOptions) ([]models.Book, error) {
	const op = "service.books.ListBooks"

	books, err := s.storage.ListBooks(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return books, nil
}

// UpdateBook выполняет частичный апдейт книги.
func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*models.Book, error) {
	const op = "service.books.UpdateBook"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	book, err := s.storage.BookByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		book.Title = title
	}

	if input.Author != nil {
		author := strings.TrimSpace(*input.Author)
		if author == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		book.Author = author
	}

	if input.Year != nil {
		book.Year = *input.Year
	}

	if input.Description != nil {
		book.Description = *input.Description
	}

	book.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return book, nil
}

// DeleteBook удаляет книгу по идентификатору.
func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	const op = "service.books.DeleteBook"

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
