package models

import (
	"time"

	"github.com/google/uuid"
)

// Book — доменная сущность книги.
type Book struct {
	// ID — уникальный идентификатор книги.
	ID uuid.UUID
	// Title — название книги.
	Title string
	// Author — автор книги.
	Author string
	// Year — год издания.
	Year int
	// Description — краткое описание.
	Description string
	// CreatedAt — время создания записи (UTC).
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения записи (UTC).
	UpdatedAt time.Time
}
