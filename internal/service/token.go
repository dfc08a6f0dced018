package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/pkg/log"
)

// Тип токена — обязательный дискриминатор в claims.
// Проверка access-контекста отвергает refresh-токен и наоборот.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// tokenClaims — полезная нагрузка подписанного токена:
// {uid, username, email, exp, type}.
type tokenClaims struct {
	UserID    string `json:"uid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// signingMethod возвращает алгоритм подписи из конфигурации.
// Неизвестное значение ALGORITHM сводится к HS256.
func (s *Service) signingMethod() jwt.SigningMethod {
	if m := jwt.GetSigningMethod(s.cfg.Algorithm); m != nil {
		return m
	}

	return jwt.SigningMethodHS256
}

// secretFor возвращает ключ подписи для типа токена.
// Access- и refresh-токены подписываются разными секретами.
func (s *Service) secretFor(tokenType string) []byte {
	if tokenType == tokenTypeRefresh {
		return []byte(s.cfg.RefreshSecretKey)
	}

	return []byte(s.cfg.SecretKey)
}

// ttlFor возвращает срок жизни для типа токена.
func (s *Service) ttlFor(tokenType string) time.Duration {
	if tokenType == tokenTypeRefresh {
		return s.cfg.RefreshTokenTTL()
	}

	return s.cfg.AccessTokenTTL()
}

// generateToken выпускает подписанный токен заданного типа для пользователя.
func (s *Service) generateToken(ctx context.Context, user *models.User, tokenType string, now time.Time) (string, error) {
	const op = "service.token.generateToken"

	lg := log.From(ctx)

	claims := tokenClaims{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(tokenType))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(s.signingMethod(), claims)
	signed, err := token.SignedString(s.secretFor(tokenType))
	if err != nil {
		lg.Error("token_sign_failed",
			slog.String("op", op),
			slog.String("token_type", tokenType),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// verifyToken проверяет подпись, срок действия и тип токена.
// Любой сбой — отказ целиком: claims невалидного токена не используются.
func (s *Service) verifyToken(tokenStr, expectedType string) (*tokenClaims, error) {
	const op = "service.token.verifyToken"

	method := s.signingMethod()

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != method {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return s.secretFor(expectedType), nil
		},
		jwt.WithValidMethods([]string{method.Alg()}),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// subjectID извлекает uid из claims.
func subjectID(claims *tokenClaims) (uuid.UUID, error) {
	const op = "service.token.subjectID"

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Пара нигде не сохраняется: валидность определяется подписью и exp.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateToken(ctx, user, tokenTypeAccess, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateToken(ctx, user, tokenTypeRefresh, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL()),
	}, nil
}
