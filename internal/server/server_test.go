package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"school-service/internal/handler"
	"school-service/internal/repository"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*echo.Echo, *jwtutil.JWTUtil, *observer.ObservedLogs) {
	t.Helper()
	j, err := jwtutil.NewJWTUtil(jwtutil.Config{KeyID: "v1", SigningKey: "test-secret"})
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	store := repository.NewMemoryStore()
	h := handler.New(store.Users(), store.Schools(), j, bcrypt.MinCost)
	return New(h, j, zap.New(core)), j, logs
}

func TestServer_RoutesThroughMiddleware(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDKey))
}

func TestServer_Metrics(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "school_http_requests_total")
}

func TestServer_LogsCallerIdentity(t *testing.T) {
	e, j, logs := newTestServer(t)
	token, err := j.GenerateToken("ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/get", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	completed := logs.FilterMessage("HTTP request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, "ada@example.com", completed[0].ContextMap()["email"])
}

func TestServer_InvalidTokenIsNotRejected(t *testing.T) {
	e, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/user/signup", strings.NewReader(
		`{"first_name":"Ada","last_name":"L","mobile":"555","email":"ada@example.com","password":"hunter22"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	e, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, e, "127.0.0.1:0", time.Second, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
