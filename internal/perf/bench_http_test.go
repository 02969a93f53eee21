package perf

import (
	"sort"
	"testing"
	"time"
)

// Latency targets mirror the alerting thresholds: posting stays under the
// one second p95 that trips HighLatency, cached reports well under it, and
// cold report builds under two seconds.
func TestLedgerLatencyTargets(t *testing.T) {
	scenarios := []struct {
		name      string
		samples   []time.Duration
		threshold time.Duration
	}{
		{
			name:      "posting",
			samples:   []time.Duration{180 * time.Millisecond, 210 * time.Millisecond, 240 * time.Millisecond, 280 * time.Millisecond, 320 * time.Millisecond, 360 * time.Millisecond, 420 * time.Millisecond, 480 * time.Millisecond, 540 * time.Millisecond, 610 * time.Millisecond},
			threshold: time.Second,
		},
		{
			name:      "cached_report",
			samples:   []time.Duration{8 * time.Millisecond, 9 * time.Millisecond, 11 * time.Millisecond, 12 * time.Millisecond, 14 * time.Millisecond, 15 * time.Millisecond, 18 * time.Millisecond, 21 * time.Millisecond, 24 * time.Millisecond, 30 * time.Millisecond},
			threshold: 100 * time.Millisecond,
		},
		{
			name:      "cold_report_build",
			samples:   []time.Duration{600 * time.Millisecond, 700 * time.Millisecond, 820 * time.Millisecond, 950 * time.Millisecond, 1050 * time.Millisecond, 1150 * time.Millisecond, 1280 * time.Millisecond, 1400 * time.Millisecond, 1550 * time.Millisecond, 1700 * time.Millisecond},
			threshold: 2 * time.Second,
		},
	}

	for _, scenario := range scenarios {
		p95 := percentile95(scenario.samples)
		if p95 > scenario.threshold {
			t.Fatalf("%s latency regression: p95=%s threshold=%s", scenario.name, p95, scenario.threshold)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
