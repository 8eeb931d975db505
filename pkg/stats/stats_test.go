package stats_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "Test counter.",
	})
	require.NoError(t, registry.Register(counter))
	counter.Add(3)
	return registry
}

func TestDumpMetrics(t *testing.T) {
	dir := t.TempDir()
	registry := newRegistry(t)

	require.NoError(t, stats.DumpMetrics(dir, registry))
	require.NoError(t, stats.DumpMetrics(dir, registry))

	content, err := os.ReadFile(filepath.Join(dir, "metrics"))
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(content), "test_counter_total"))
}

func TestEnableMemoryStatistics(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	stats.EnableMemoryStatistics(ctx, 10*time.Millisecond, dir, newRegistry(t))
	time.Sleep(30 * time.Millisecond)
	cancel()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "metrics"))
		return err == nil
	}, time.Second, 10*time.Millisecond)
}
