package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-bookshelf/internal/errors"
	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/service"
)

type identityKey struct{}

// Authenticate — bearer-гейт для защищённых маршрутов.
//
// Последовательность:
//  1. отсутствующий/сломанный заголовок Authorization — 401 missing_credential;
//  2. токен проверяется как access-токен (подпись, срок, тип);
//  3. личность заново читается из хранилища — хендлеры за гейтом получают
//     живую запись, а не кэшированные claims: удалённый или переименованный
//     аккаунт отражается сразу, даже если сам токен ещё структурно валиден.
func Authenticate(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				apierrors.WriteError(w, r, service.ErrMissingCredential)
				return
			}

			user, err := svc.ResolveAccessToken(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom достаёт личность текущего запроса, положенную гейтом.
func IdentityFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*models.User)
	return user, ok && user != nil
}

// bearerToken разбирает значение заголовка Authorization.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if header == "" || !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}
