//go:build integration

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"craftopia-api/internal/config"
	"craftopia-api/internal/metrics"
	"craftopia-api/internal/model"
	"craftopia-api/internal/store"
)

func newPostgresServer(t *testing.T, authRPM int) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping postgres integration tests")
	}
	_ = provider.Close()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("craftopia_test"),
		postgres.WithUsername("craftopia"),
		postgres.WithPassword("craftopia_test_password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = container.Terminate(cleanupCtx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		JWTSecret:        "integration-secret",
		JWTTTL:           time.Hour,
		StoreDriver:      store.DriverPostgres,
		DatabaseURL:      connStr,
		DBMaxConns:       4,
		DBMinConns:       1,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: authRPM,
		LogFormat:        "json",
	}
	require.NoError(t, cfg.Validate())

	st, err := openStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	h, err := newHandler(cfg, st, metrics.New())
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func issueToken(t *testing.T, serverURL, email string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, serverURL+"/jwt", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed model.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed.Token
}

func TestPostgresEnrollmentFlow(t *testing.T) {
	server := newPostgresServer(t, 1000)

	resp := doJSON(t, http.MethodPut, server.URL+"/users/teach@x.com", "", map[string]any{
		"currentUser": map[string]any{"email": "teach@x.com", "name": "Tess"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token := issueToken(t, server.URL, "teach@x.com")

	// A fresh user is a student, so the instructor gate refuses them.
	resp = doJSON(t, http.MethodPost, server.URL+"/classes", token, map[string]any{
		"addedClass": map[string]any{"className": "Glass", "instructorEmail": "teach@x.com"},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/selectedClasses/teach@x.com", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var selections []model.Selection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&selections))
	require.Empty(t, selections)

	resp = doJSON(t, http.MethodPost, server.URL+"/selectedClasses", token, map[string]any{
		"classId": "c1", "email": "teach@x.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var inserted store.InsertResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inserted))
	require.NotEmpty(t, inserted.InsertedID)

	resp = doJSON(t, http.MethodDelete, server.URL+"/selectedClasses/"+inserted.InsertedID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var deleted store.DeleteResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deleted))
	require.EqualValues(t, 1, deleted.DeletedCount)
}

func TestTokenRateLimitReturns429(t *testing.T) {
	server := newPostgresServer(t, 2)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodPost, server.URL+"/jwt", "", map[string]string{"email": "a@x.com"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/jwt", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "60", resp.Header.Get("Retry-After"))
}
