// storage определяет контракты доступа к БД для сервиса.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-bookshelf/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/книга).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username/email).
	ErrAlreadyExists = errors.New("already exists")
)

// ListOptions — параметры постраничной выборки (limit/offset).
//
// При Limit <= 0 реализация применяет серверный default.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserStorage выполняет операции над пользователями.
//
// Auth-ядро использует только читающие методы UserByUsername/UserByID;
// записывающие методы нужны CRUD-слою.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по username.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// ListUsers возвращает страницу пользователей, новые — первыми.
	ListUsers(ctx context.Context, opts ListOptions) ([]models.User, error)
	// UpdateUser перезаписывает изменяемые поля пользователя.
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser удаляет пользователя по ID.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// BookStorage выполняет операции над книгами.
type BookStorage interface {
	// SaveBook создает новую книгу в БД.
	SaveBook(ctx context.Context, book *models.Book) error
	// BookByID находит книгу по ID.
	BookByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	// ListBooks возвращает страницу книг, новые — первыми.
	ListBooks(ctx context.Context, opts ListOptions) ([]models.Book, error)
	// UpdateBook перезаписывает изменяемые поля книги.
	UpdateBook(ctx context.Context, book *models.Book) error
	// DeleteBook удаляет книгу по ID.
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	BookStorage
	Close()
}
