package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New(Config{Namespace: "test"})
	b := New(Config{Namespace: "test"})

	a.RecordCycle(OutcomeSuccess, 0.5)
	a.RecordCycle(OutcomeSuccess, 0.7)
	b.RecordCycle(OutcomeFailed, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.CyclesTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CyclesTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.CyclesTotal.WithLabelValues(OutcomeFailed)))
}

func TestRecorders(t *testing.T) {
	m := New(Config{})

	m.RecordSourceFailure("jupiter")
	m.SetSnapshotTokens(42)
	m.RecordCacheRead("local", "hit")
	m.RecordBroadcast("tokens-refresh")
	m.SetConnectedClients(3)
	m.RecordDroppedClient()
	m.RecordPollerSkip()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues("jupiter")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.SnapshotTokens))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheReads.WithLabelValues("local", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Broadcasts.WithLabelValues("tokens-refresh")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ConnectedClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollerSkips))
}

func TestNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCycle(OutcomeSuccess, 1)
		m.RecordSourceFailure("x")
		m.SetSnapshotTokens(1)
		m.RecordCacheRead("remote", "miss")
		m.RecordBroadcast("x")
		m.SetConnectedClients(1)
		m.RecordDroppedClient()
		m.RecordPollerSkip()
	})
}

func TestHandler(t *testing.T) {
	m := New(Config{Namespace: "test"})
	m.RecordPollerSkip()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "test_poller_skipped_ticks_total 1")
}
