package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"users-service/internal/api"
	"users-service/internal/api/handlers"
	"users-service/internal/api/middleware"
	"users-service/internal/repository"
	"users-service/internal/service"
	"users-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClient HTTP клиент поверх httptest сервера с in-memory хранилищем
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient поднимает роутер и возвращает клиента к нему
func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	repo, err := repository.NewMemoryUserRepository(logger.Discard())
	require.NoError(t, err)

	return newTestClientWith(t, service.NewUserService(repo, logger.Discard()), service.NewStatsService(repo, logger.Discard()), nil)
}

func newTestClientWith(t *testing.T, users handlers.UserService, stats handlers.StatsService, health handlers.HealthChecker) *TestClient {
	t.Helper()

	handler := handlers.NewHandler(users, stats, health, logger.Discard())
	router := api.NewRouter(handler, logger.Discard(), api.RouterOptions{
		Metrics:     middleware.NewMetrics(prometheus.NewRegistry()),
		MetricsPath: "/metrics",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestClient{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Get выполняет GET запрос
func (c *TestClient) Get(t *testing.T, path string) *http.Response {
	resp, err := c.HTTPClient.Get(c.BaseURL + path)
	require.NoError(t, err, "GET request failed")
	return resp
}

// Post выполняет POST запрос с JSON телом
func (c *TestClient) Post(t *testing.T, path string, body interface{}) *http.Response {
	return c.Do(t, http.MethodPost, path, body)
}

// Patch выполняет PATCH запрос с JSON телом
func (c *TestClient) Patch(t *testing.T, path string, body interface{}) *http.Response {
	return c.Do(t, http.MethodPatch, path, body)
}

// Delete выполняет DELETE запрос
func (c *TestClient) Delete(t *testing.T, path string) *http.Response {
	return c.Do(t, http.MethodDelete, path, nil)
}

// Do выполняет запрос; body кодируется в JSON, если не nil
func (c *TestClient) Do(t *testing.T, method, path string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(jsonData)
	}
	return c.DoRaw(t, method, path, "application/json", reader)
}

// DoRaw выполняет запрос с произвольным телом и Content-Type
func (c *TestClient) DoRaw(t *testing.T, method, path, contentType string, body io.Reader) *http.Response {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	require.NoError(t, err)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	require.NoError(t, err, "%s request failed", method)
	return resp
}

// ReadBody читает тело ответа
func (c *TestClient) ReadBody(t *testing.T, resp *http.Response) []byte {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	return body
}

// DecodeJSON декодирует JSON ответ
func (c *TestClient) DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	body := c.ReadBody(t, resp)
	err := json.Unmarshal(body, v)
	require.NoError(t, err, "Failed to decode JSON: %s", string(body))
}

// AssertStatusCode проверяет код ответа
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	assert.Equal(t, expected, resp.StatusCode,
		fmt.Sprintf("Expected status %d, got %d", expected, resp.StatusCode))
}
