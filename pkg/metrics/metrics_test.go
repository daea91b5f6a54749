package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := NewMetrics(DefaultConfig())

	m.Observe("search", true, 20*time.Millisecond)
	m.Observe("search", false, 5*time.Millisecond)
	m.Observe("upsert", true, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("search", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("search", StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("upsert", StatusSuccess)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestServiceLabel(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "vectormigrate"})
	m.Observe("backup", true, time.Millisecond)

	expected := `
# HELP vectorbridge_operations_total Number of vectorbridge operations by outcome.
# TYPE vectorbridge_operations_total counter
vectorbridge_operations_total{operation="backup",service="vectormigrate",status="success"} 1
`
	err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "vectorbridge_operations_total")
	require.NoError(t, err)
}

func TestPushDisabled(t *testing.T) {
	m := NewMetrics(DefaultConfig())
	assert.False(t, m.PushEnabled())
	assert.NoError(t, m.Push(context.Background()))
}

func TestPush(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMetrics(Config{PushgatewayURL: srv.URL, Job: "bridge"})
	m.Observe("health", true, time.Millisecond)

	require.NoError(t, m.Push(context.Background()))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/bridge", gotPath)
}

func TestPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewMetrics(Config{PushgatewayURL: srv.URL})
	m.Observe("health", true, time.Millisecond)

	err := m.Push(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
}
