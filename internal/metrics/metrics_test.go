package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("configvault")
	require.NoError(t, err)
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Handler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestBusinessMetricsRecording(t *testing.T) {
	provider, err := NewProvider("configvault")
	require.NoError(t, err)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "configvault")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "store", "set", "success")
	bm.RecordOperation(ctx, "store", "set", "error")
	bm.RecordDuration(ctx, "store", "get", 25*time.Millisecond, "success")

	server := httptest.NewServer(provider.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	output := string(body)
	assert.Contains(t, output, "configvault_operations_total")
	assert.Regexp(t, `configvault_operations_total\{[^}]*operation="set"[^}]*status="success"[^}]*\} 1`, output)
	assert.Contains(t, output, "configvault_operation_duration_seconds")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	bm.RecordOperation(context.Background(), "store", "set", "success")
	bm.RecordDuration(context.Background(), "store", "set", time.Second, "success")
}
