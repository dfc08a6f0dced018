package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/pkg/log"
	"github.com/pribylovaa/go-bookshelf/internal/storage"
)

// Входные структуры сервисного слоя.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput — частичный апдейт: обновляются только поля,
// для которых задан указатель.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Verified *bool
}

// CreateUser создаёт нового пользователя с хэшированным паролем.
//
// Валидация:
//   - username нормализуется (TrimSpace), длина 3..50;
//   - email проверяется базовым парсером и приводится к нижнему регистру;
//   - пароль не должен быть пустым.
//
// Конфликт уникальности возвращается как ErrUsernameTaken/ErrEmailTaken.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	const op = "service.users.CreateUser"

	lg := log.From(ctx)

	username, err := validateUsername(input.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	email, err := validateEmail(input.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.Password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.storage.UserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.UserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Гонка между проверкой и вставкой: считаем конфликтом username.
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		lg.Error("save_user_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID возвращает пользователя по идентификатору.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.users.UserByID"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ListUsers возвращает страницу пользователей, новые — первыми.
func (s *Service) ListUsers(ctx context.Context, opts storage.ListOptions) ([]models.User, error) {
	const op = "service.users.ListUsers"

	users, err := s.storage.ListUsers(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// UpdateUser выполняет частичный апдейт пользователя.
// Смена username/email повторно проверяется на уникальность.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	const op = "service.users.UpdateUser"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.Username != nil {
		username, err := validateUsername(*input.Username)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if username != user.Username {
			if other, err := s.storage.UserByUsername(ctx, username); err == nil && other.ID != id {
				return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
			} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			user.Username = username
		}
	}

	if input.Email != nil {
		email, err := validateEmail(*input.Email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if email != user.Email {
			if other, err := s.storage.UserByEmail(ctx, email); err == nil && other.ID != id {
				return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
			} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			user.Email = email
		}
	}

	if input.Verified != nil {
		user.Verified = *input.Verified
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrAlreadyExists):
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return user, nil
}

// DeleteUser удаляет пользователя по идентификатору.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const op = "service.users.DeleteUser"

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// validateUsername нормализует username и проверяет длину.
func validateUsername(raw string) (string, error) {
	const op = "service.users.validateUsername"

	username := strings.TrimSpace(raw)
	if n := len([]rune(username)); n < 3 || n > 50 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return username, nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.users.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return strings.ToLower(email), nil
}
