// service содержит бизнес-логику сервиса:
// аутентификацию пользователей, выпуск/проверку токенов и CRUD-операции
// над книгами и пользователями через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются и далее маппятся HTTP-слоем на статус-коды
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-bookshelf/internal/config"
	"github.com/pribylovaa/go-bookshelf/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Ответ одинаков для обоих случаев, чтобы не раскрывать существование имени.
	// HTTP 401 + WWW-Authenticate: Bearer.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен некорректен по формату/подписи/типу,
	// либо субъект токена больше не существует. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — подпись верна, но срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingCredential — в запросе нет bearer-учётных данных
	// (заголовок Authorization отсутствует или сломан). HTTP 401.
	ErrMissingCredential = errors.New("missing bearer credential")

	// ErrNotFound — запрошенная сущность (книга/пользователь) отсутствует. HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken — username уже занят другим пользователем. HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken — e-mail уже занят другим пользователем. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidArgument — входные данные не проходят базовую валидацию. HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Service описывает бизнес-логику сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
