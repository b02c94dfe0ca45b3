package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/libp2p/go-reuseport"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(driver string) config.Config {
	var cfg config.Config
	cfg.Server.Host = "127.0.0.1"
	cfg.Store.Driver = driver
	return cfg
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWorkerServesEachDriver(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			worker, err := NewWorker(context.Background(), testConfig(driver), quietLogger())
			require.NoError(t, err)
			defer worker.Close()

			rec := httptest.NewRecorder()
			worker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())

			rec = httptest.NewRecorder()
			body := strings.NewReader(`{"username":"A","age":24,"hobbies":["x"]}`)
			worker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users", body))
			assert.Equal(t, http.StatusCreated, rec.Code)

			rec = httptest.NewRecorder()
			worker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
			assert.Contains(t, rec.Body.String(), `"username":"A"`)
		})
	}
}

func TestNewWorkerRejectsUnknownDriver(t *testing.T) {
	_, err := NewWorker(context.Background(), testConfig("redis"), quietLogger())
	assert.Error(t, err)
}

func TestWorkersHaveIndependentStores(t *testing.T) {
	first, err := NewWorker(context.Background(), testConfig(config.StoreMemory), quietLogger())
	require.NoError(t, err)
	second, err := NewWorker(context.Background(), testConfig(config.StoreMemory), quietLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"username":"A","age":24,"hobbies":[]}`)
	first.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	second.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListenSharesPort(t *testing.T) {
	if !reuseport.Available() {
		t.Skip("SO_REUSEPORT not available")
	}

	first, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer first.Close()

	second, err := Listen(first.Addr().String())
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.Addr().String(), second.Addr().String())
}

func TestWorkerServeAndShutdown(t *testing.T) {
	if !reuseport.Available() {
		t.Skip("SO_REUSEPORT not available")
	}

	worker, err := NewWorker(context.Background(), testConfig(config.StoreMemory), quietLogger())
	require.NoError(t, err)
	defer worker.Close()

	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/users")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not shut down")
	}
}
