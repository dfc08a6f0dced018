// models содержит доменные сущности сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — доменная сущность пользователя.
//
// Особенности:
//   - ID — UUIDv4;
//   - Username и Email глобально уникальны;
//   - PasswordHash никогда не отдаётся наружу транспортом;
//   - временные метки — в UTC.
type User struct {
	// ID — уникальный идентификатор пользователя.
	ID uuid.UUID
	// Username — уникальное имя для входа.
	Username string
	// Email — уникальный адрес почты.
	Email string
	// PasswordHash — bcrypt-хэш пароля.
	PasswordHash string
	// Verified — информационный флаг подтверждения аккаунта;
	// аутентификацию не блокирует.
	Verified bool
	// CreatedAt — время создания записи (UTC).
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения записи (UTC).
	UpdatedAt time.Time
}
