package iochttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikciu/ioc"
	"github.com/pikciu/ioc/metrics"
)

type Database struct{ down bool }

func (d *Database) HealthCheck(context.Context) error {
	if d.down {
		return errors.New("connection lost")
	}
	return nil
}

func (d *Database) ReadinessCheck(context.Context) error { return nil }

type Repository struct{ db *Database }

func NewRepository(db *Database) *Repository { return &Repository{db: db} }

func newContainer(t *testing.T, db *Database, opts ...ioc.Option) *ioc.Container {
	t.Helper()

	c := ioc.New(opts...)
	require.NoError(t, ioc.RegisterValue(c, db))
	require.NoError(t, ioc.RegisterSelf[*Repository](c, ioc.WithConstructor(NewRepository), ioc.AsSingleton()))
	return c
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProbes(t *testing.T) {
	t.Parallel()

	db := &Database{}
	h := NewHandler(newContainer(t, db))

	rec := get(t, h, "/livez")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = get(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	db.down = true
	rec = get(t, h, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection lost")
}

func TestHealth(t *testing.T) {
	t.Parallel()

	db := &Database{down: true}
	h := NewHandler(newContainer(t, db))

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ioc.HealthStatusDown, resp.Status)
	require.Len(t, resp.Reports, 1)
	assert.Contains(t, resp.Reports[0].Error, "connection lost")
}

func TestRegistrations(t *testing.T) {
	t.Parallel()

	c := newContainer(t, &Database{})
	_, err := ioc.Resolve[*Repository](c)
	require.NoError(t, err)

	rec := get(t, NewHandler(c), "/registrations")
	require.Equal(t, http.StatusOK, rec.Code)

	var regs []registration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regs))
	require.Len(t, regs, 2)

	db, repo := regs[0], regs[1]
	assert.True(t, db.PreSupplied)
	assert.Equal(t, []string{repo.Contract}, db.Dependents)
	assert.Empty(t, db.Dependencies)
	assert.Equal(t, "singleton", repo.Lifecycle)
	assert.Equal(t, []string{db.Contract}, repo.Dependencies)
	assert.True(t, repo.Instantiated)
}

func TestGraph(t *testing.T) {
	t.Parallel()

	h := NewHandler(newContainer(t, &Database{}))

	rec := get(t, h, "/graph")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[singleton]")

	rec = get(t, h, "/graph?format=dot")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph dependencies {")

	rec = get(t, h, "/graph?format=svg")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	observer := metrics.MustNew(reg)
	c := newContainer(t, &Database{}, observer.Options()...)
	_, err := ioc.Resolve[*Repository](c)
	require.NoError(t, err)

	rec := get(t, NewHandler(c, WithMetrics(reg)), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ioc_resolutions_total{contract="iochttp.Repository",result="success"} 1`)

	rec = get(t, NewHandler(c), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
