package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/storage"
)

// SaveBook создает новую книгу в БД.
func (s *Storage) SaveBook(ctx context.Context, book *models.Book) error {
	const op = "storage.postgres.SaveBook"

	query := `
		INSERT INTO books(id, title, author, year, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.Description,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// BookByID находит книгу по ID.
func (s *Storage) BookByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	const op = "storage.postgres.BookByID"

	query := `
		SELECT id, title, author, year, description, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var book models.Book
	err := s.db.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Year,
		&book.Description,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &book, nil
}

// ListBooks возвращает страницу книг, отсортированных по created_at (DESC).
func (s *Storage) ListBooks(ctx context.Context, opts storage.ListOptions) ([]models.Book, error) {
	const op = "storage.postgres.ListBooks"

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, title, author, year, description, created_at, updated_at
		FROM books
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var book models.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Year,
			&book.Description,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return books, nil
}

// UpdateBook перезаписывает изменяемые поля книги.
func (s *Storage) UpdateBook(ctx context.Context, book *models.Book) error {
	const op = "storage.postgres.UpdateBook"

	query := `
		UPDATE books
		SET title = $2, author = $3, year = $4, description = $5, updated_at = $6
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.Description,
		book.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteBook удаляет книгу по ID.
func (s *Storage) DeleteBook(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteBook"

	query := `
		DELETE FROM books
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
