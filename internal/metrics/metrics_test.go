package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveScan("hall")
	m.ObserveScan("hall")
	m.ObserveScan("signatures")
	m.ObserveVerification("verified", 97.5)
	m.ObserveRPC("/hallcount.v1.AttendanceService/Match", "ok", 15*time.Millisecond)

	if got := testutil.ToFloat64(m.scans.WithLabelValues("hall")); got != 2 {
		t.Errorf("hall scans = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.scans.WithLabelValues("signatures")); got != 1 {
		t.Errorf("signature scans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.verifications.WithLabelValues("verified")); got != 1 {
		t.Errorf("verified = %v, want 1", got)
	}

	expected := `
# HELP hallcount_verifications_total Verifications by outcome status.
# TYPE hallcount_verifications_total counter
hallcount_verifications_total{status="verified"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "hallcount_verifications_total"); err != nil {
		t.Error(err)
	}

	if n := testutil.CollectAndCount(m.rpcDuration); n != 1 {
		t.Errorf("rpc duration series = %d, want 1", n)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveScan("hall")
	m.ObserveVerification("verified", 100)
	m.ObserveRPC("/x", "ok", time.Second)
}
