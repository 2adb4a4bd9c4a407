package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/teamgraph/go/internal/events"
	"github.com/mcdev12/teamgraph/go/internal/graph"
	"github.com/mcdev12/teamgraph/go/internal/metrics"
	"github.com/mcdev12/teamgraph/go/internal/testutil"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)
	assert.True(t, config.GraphQL.GraphiQL)
	assert.Equal(t, 10, config.GraphQL.MaxDepth)
	assert.Equal(t, []string{"*"}, config.CORS.AllowedOrigins)
	assert.Empty(t, config.NATS.URL)
	assert.Equal(t, "teamgraph.events", config.NATS.SubjectPrefix)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
graphql:
  graphiql: false
  max_depth: 4
cors:
  allowed_origins: ["https://a.example"]
nats:
  url: nats://nats:4222
shutdown_timeout: 3s
`), 0o600))

	t.Setenv("GRAPHQL_MAX_DEPTH", "6")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://b.example, https://c.example")

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.False(t, config.GraphQL.GraphiQL)
	assert.Equal(t, 6, config.GraphQL.MaxDepth)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, config.CORS.AllowedOrigins)
	assert.Equal(t, "nats://nats:4222", config.NATS.URL)
	assert.Equal(t, "teamgraph.events", config.NATS.SubjectPrefix)
	assert.Equal(t, 3*time.Second, config.ShutdownTimeout)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [\n"), 0o600))
	_, err = loadConfig(path)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	config := defaultConfig()
	var buf bytes.Buffer

	config.Log.Format = "json"
	require.NoError(t, setupLogging(config, &buf))

	config.Log.Level = "loud"
	assert.Error(t, setupLogging(config, &buf))

	config.Log.Level = "info"
	config.Log.Format = "xml"
	assert.Error(t, setupLogging(config, &buf))
}

func TestSetupPublisherWithoutNATS(t *testing.T) {
	publisher, closeFn, err := setupPublisher(defaultConfig())
	require.NoError(t, err)
	assert.IsType(t, events.LogPublisher{}, publisher)
	closeFn()
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed"})
	assert.NotNil(t, root.RunE)

	seed, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	assert.Equal(t, "teams.yaml", seed.Flags().Lookup("file").DefValue)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestHandler(t *testing.T, db fakePinger) http.Handler {
	t.Helper()
	services := setupServices(&testutil.FakeDB{}, time.Second, events.NoopPublisher{}, metrics.NewRecorder(), clockwork.NewFakeClock())
	schema, err := graph.NewSchema(services.Resolver, graph.Options{MaxDepth: 10})
	require.NoError(t, err)
	return setupHandler(defaultConfig(), schema, db, metrics.NewRecorder(), clockwork.NewFakeClock())
}

func TestHandlerRoutes(t *testing.T) {
	h := newTestHandler(t, fakePinger{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{"query":"{ hello }"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"hello":"Hello world!"}}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerPlayersQueryUsesPool(t *testing.T) {
	h := newTestHandler(t, fakePinger{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{"query":"{ players { id } teams { id } }"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"players":[],"teams":[]}}`, rec.Body.String())
}

func TestHealthCheckFailure(t *testing.T) {
	h := newTestHandler(t, fakePinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, fakePinger{})

	req := httptest.NewRequest(http.MethodOptions, "/api", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
