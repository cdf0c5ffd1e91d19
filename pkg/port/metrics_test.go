package port

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nobletooth/dlist/pkg/store"
	"github.com/nobletooth/dlist/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	handler, err := newRedisHandler(store.NewListStore(1, 0))
	require.NoError(t, err)
	handler.handle(redisCommand{command: "PING"})

	recorder := httptest.NewRecorder()
	newMetricsHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `dlist_commands_total{command="PING",status="ok"}`)
}

func TestRunMetricsServer_Disabled(t *testing.T) {
	utils.SetTestFlag(t, "metrics_address", "")
	assert.NoError(t, RunMetricsServer(t.Context()))
}

func TestRunMetricsServer_StopsOnCancel(t *testing.T) {
	utils.SetTestFlag(t, "metrics_address", "127.0.0.1:0")
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- RunMetricsServer(ctx) }()

	time.Sleep(50 * time.Millisecond) // Give the server a moment to start listening.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(metricsShutdownTimeout):
		t.Fatal("Metrics server didn't stop after cancellation.")
	}
}
