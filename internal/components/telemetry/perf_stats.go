package telemetry

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

const (
	report_perf_cpu_usage       = "perf.cpu-usage"
	report_perf_allocated_mb    = "perf.allocated-mb"
	report_perf_live_objects    = "perf.live-objects"
	report_perf_goroutine_count = "perf.goroutine-count"
)

// InstrumentPerfStats periodically reports process statistics until ctx is done.
func InstrumentPerfStats(ctx context.Context, tel API, interval time.Duration) {
	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				cpuUsage, err := cpu.PercentWithContext(ctx, time.Second, false)
				if err == nil && len(cpuUsage) > 0 {
					tel.ReportCount(report_perf_cpu_usage, int64(cpuUsage[0]))
				} else if err != nil {
					tel.ReportWarning(report_perf_cpu_usage, fmt.Errorf("read cpu usage: %w", err))
				}

				tel.ReportCount(report_perf_allocated_mb, int64(memStats.Alloc/1_000_000))
				tel.ReportCount(report_perf_live_objects, int64(memStats.Mallocs)-int64(memStats.Frees))
				tel.ReportCount(report_perf_goroutine_count, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
