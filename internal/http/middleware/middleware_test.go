package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-bookshelf/internal/config"
	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/service"
	"github.com/pribylovaa/go-bookshelf/mocks"
)

// capHandler — тестовый slog.Handler, который аккумулирует attrs
// без реального I/O.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errEnvelope {
	t.Helper()
	var env errEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	m1 := Middleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m1-end")
		})
	})

	m2 := Middleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m2-end")
		})
	})

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	Chain(final, m1, m2).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
	})

	rec := httptest.NewRecorder()
	RequestID()(final).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 32)
	require.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_PropagatesExisting(t *testing.T) {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-rid")
	rec := httptest.NewRecorder()
	RequestID()(final).ServeHTTP(rec, req)

	require.Equal(t, "client-rid", rec.Header().Get("X-Request-Id"))
}

func TestLogging_EmitsHTTPRecordWithRequestID(t *testing.T) {
	h := &capHandler{}
	l := slog.New(h)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("payload"))
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
	req.Header.Set("X-Request-Id", "rid-42")
	rec := httptest.NewRecorder()
	Logging(l)(final).ServeHTTP(rec, req)

	require.Equal(t, 1, h.count)
	require.Equal(t, "http", h.lastMsg)
	require.Equal(t, "POST", h.attrs["method"])
	require.Equal(t, "/v1/books", h.attrs["path"])
	require.EqualValues(t, http.StatusCreated, h.attrs["status"])
	require.Equal(t, "rid-42", h.attrs["request_id"])
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		Recover()(final).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeErr(t, rec)
	require.Equal(t, "internal", env.Error.Code)
	// детали паники не утекают в ответ.
	require.NotContains(t, rec.Body.String(), "boom")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	rec := httptest.NewRecorder()
	Timeout(time.Second)(final).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, hasDeadline)
}

func TestTimeout_NoopWhenNonPositive(t *testing.T) {
	var hasDeadline bool
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	rec := httptest.NewRecorder()
	Timeout(0)(final).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, hasDeadline)
}

// --- bearer-гейт ---

func gateCfg() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:        "gate-access-secret",
		RefreshSecretKey: "gate-refresh-secret",
		Algorithm:        "HS256",
		AccessExpireMin:  15,
		RefreshExpireDay: 30,
	}
}

func gateUser(t *testing.T) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	return &models.User{
		ID:           uuid.New(),
		Username:     "gatekeeper",
		Email:        "gatekeeper@example.com",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.New(mocks.NewMockStorage(ctrl), gateCfg())

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("хендлер не должен вызываться без bearer-токена")
	})

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		Authenticate(svc)(final).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		require.Equal(t, "missing_credential", decodeErr(t, rec).Error.Code)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.New(mocks.NewMockStorage(ctrl), gateCfg())

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("хендлер не должен вызываться с невалидным токеном")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	Authenticate(svc)(final).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", decodeErr(t, rec).Error.Code)
}

func TestAuthenticate_OKPutsIdentityIntoContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, gateCfg())

	user := gateUser(t)
	st.EXPECT().UserByUsername(gomock.Any(), user.Username).Return(user, nil)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), user.Username, "pw")
	require.NoError(t, err)

	var gotIdentity *models.User
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	Authenticate(svc)(final).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotIdentity)
	require.Equal(t, user.ID, gotIdentity.ID)
}

func TestIdentityFrom_EmptyContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	require.False(t, ok)
}
