package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/config"
	"github.com/nucleus/starwars-api/internal/metrics"
	"github.com/nucleus/starwars-api/internal/middleware"
	"github.com/nucleus/starwars-api/internal/starwars"
)

type fakeDB struct {
	rows    map[string]int64
	pingErr error
}

func (f *fakeDB) CreditsByUserIDs(_ context.Context, ids []string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, id := range ids {
		if v, ok := f.rows[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (f *fakeDB) Ping(context.Context) error {
	return f.pingErr
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                "0",
		DatabaseURL:         "postgres://test",
		MigrationsPath:      "./migrations",
		MaxParallelism:      10,
		LoaderWait:          5 * time.Millisecond,
		LoaderBatchCapacity: 100,
		LogLevel:            "debug",
		LogFormat:           "console",
		ShutdownTimeout:     time.Second,
	}
}

func newTestServer(t *testing.T, db *fakeDB) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	h, err := newHandler(starwars.Default(), db, m, zap.NewNop(), testConfig())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, m
}

func postQuery(t *testing.T, url, query string) map[string]interface{} {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGraphQLEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDB{rows: map[string]int64{"1000": 42}})

	for _, path := range []string{"/graphql", "/"} {
		t.Run(path, func(t *testing.T) {
			out := postQuery(t, srv.URL+path, `{ hero { name ... on Human { credits } } }`)
			assert.Nil(t, out["errors"])
			assert.Equal(t, map[string]interface{}{
				"hero": map[string]interface{}{"name": "Luke Skywalker", "credits": 42.0},
			}, out["data"])
		})
	}
}

func TestPlayground(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDB{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		db         *fakeDB
		wantCode   int
		wantStatus string
	}{
		{name: "ok", db: &fakeDB{}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "db down", db: &fakeDB{pingErr: errors.New("refused")}, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.db)

			resp, err := http.Get(srv.URL + "/health")
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			var h health
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
			assert.Equal(t, tt.wantStatus, h.Status)
			assert.Equal(t, version, h.Version)
		})
	}
}

func TestMetricsAndSchemaRoutes(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDB{})
	postQuery(t, srv.URL+"/graphql", `{ humans { credits } }`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `starwars_http_requests_total{code="200",path="/graphql"} 1`)
	assert.Contains(t, buf.String(), "starwars_credits_batch_size_count")

	resp, err = http.Get(srv.URL + "/schema.graphql")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf.Reset()
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "type Query")
}

func TestUnknownPathsShareOneMetricSeries(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDB{})

	for i := 0; i < 20; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/random-%d", srv.URL, i))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, `starwars_http_requests_total{code="404",path="unmatched"} 20`)
	assert.NotContains(t, body, "random-")
}

func TestLoadDataset(t *testing.T) {
	cfg := testConfig()
	api, err := loadDataset(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Luke Skywalker", api.Hero(nil).Name)
	assert.Equal(t, "built-in", datasetSource(cfg))

	cfg.SeedFile = filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte("heroes: {saga: x, droid: y}\n"), 0o600))
	_, err = loadDataset(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed dataset")
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "starwars-api "+version, strings.TrimSpace(out.String()))
}

func TestServeRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STARWARS_DATABASE_URL", "")

	for _, args := range [][]string{{"serve"}, {"migrate", "up"}} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append(args, "--log_level=error"))

		err := cmd.Execute()
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "database_url is required")
	}
}

func TestServeRejectsBadLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--log_level=loud"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
