package stats

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
)

const dumpFilename = "metrics"

// EnableMemoryStatistics starts a go routine that periodically logs the
// memory usage and the number of go routines of the process. Once ctx is
// done, the metrics of the given gatherer are dumped to a file in statsDir.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, statsDir string,
	gatherer prometheus.Gatherer,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if err := DumpMetrics(statsDir, gatherer); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / MEGABYTE
}

// PrintMemoryStatistics logs memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.WithFields(log.Fields{
		"total_alloc_mb": fmt.Sprintf("%.3f", toMegabytes(memStats.TotalAlloc)),
		"heap_alloc_mb":  fmt.Sprintf("%.3f", toMegabytes(memStats.HeapAlloc)),
		"mallocs":        memStats.Mallocs,
		"frees":          memStats.Frees,
	}).Info("memory statistics")
}

// PrintNumOfRoutines logs the number of go routines currently running.
func PrintNumOfRoutines() {
	log.Infof("num of go routines: %d", runtime.NumGoroutine())
}

// DumpMetrics appends the metrics of the given gatherer to the dump file in
// statsDir.
func DumpMetrics(statsDir string, gatherer prometheus.Gatherer) error {
	metricFamilies, err := gatherer.Gather()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(
		filepath.Join(statsDir, dumpFilename),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := fmt.Fprintf(
		writer, "# %s\n", time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	for _, mf := range metricFamilies {
		if _, err := writer.WriteString(mf.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
