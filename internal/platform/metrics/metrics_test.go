package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"readlog/internal/platform/metrics"
)

func TestCollectorCountsByLabel(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordProgressLogged("manual")
	c.RecordProgressLogged("manual")
	c.RecordProgressLogged("completion")
	c.RecordSessionArchived("read")
	c.RecordStatusTransition("to-read", "reading")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 3)

	require.Equal(t, 3, testutil.CollectAndCount(reg, "readlog_progress_entries_total", "readlog_sessions_archived_total"))
}

func TestNopSatisfiesRecorder(t *testing.T) {
	t.Parallel()
	var r metrics.Recorder = metrics.Nop{}
	r.RecordStreakRebuild("timezone")
	r.RecordInvalidation("dashboard")
}
