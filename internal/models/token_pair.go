package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе и обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT, предъявляемый только для выпуска
//     нового access-токена; подписан отдельным секретом;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
//
// Пара нигде не хранится на сервере: валидность полностью определяется
// подписью и сроком действия.
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления access-токена.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
