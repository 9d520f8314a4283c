package dashboard

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bennieslab/threatwatch/internal/client/api"
	"github.com/bennieslab/threatwatch/internal/client/poll"
	"github.com/bennieslab/threatwatch/internal/client/render"
	"github.com/bennieslab/threatwatch/internal/client/session"
	"github.com/bennieslab/threatwatch/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestAggregator(t *testing.T, handler http.Handler) *Aggregator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewFileStore(filepath.Join(t.TempDir(), "credential"))
	client := api.New(srv.URL, 2*time.Second, store, testLogger())
	sched := poll.NewScheduler(testLogger())
	t.Cleanup(sched.StopAll)

	return New(client, sched, testLogger())
}

const threatFeed = `[
	{"timestamp": "2026-08-12T10:00:00Z", "source_type": "network_ids", "threat_type": "Port Scan", "source_identifier": "10.0.0.9", "severity": "High"},
	{"timestamp": "2026-08-12T10:01:00Z", "source_type": "email", "threat_type": "Phishing", "source_identifier": "evil@example.com", "severity": "Medium"}
]`

func TestRefreshThreats_DerivesBothViewsFromOneFetch(t *testing.T) {
	var fetches atomic.Int32
	a := newTestAggregator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/threats/recent", r.URL.Path)
		fetches.Add(1)
		w.Write([]byte(threatFeed))
	}))

	a.RefreshThreats(context.Background())

	assert.Equal(t, int32(1), fetches.Load(), "one shared fetch for both threat views")

	a.mu.Lock()
	defer a.mu.Unlock()
	require.Len(t, a.network.records, 1, "network view keeps only network_ids events")
	assert.Equal(t, "Port Scan", a.network.records[0]["threat_type"])
	assert.Len(t, a.insights.records, 2, "merged view keeps every event")
}

func TestFilterBySourceType(t *testing.T) {
	records := []render.Record{
		{"source_type": "network_ids", "threat_type": "a"},
		{"source_type": "email"},
		{"source_type": "sms"},
		{},
	}
	got := FilterBySourceType(records, NetworkSourceType)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0]["threat_type"])
}

func TestRefresh_FailureIsolatedPerView(t *testing.T) {
	a := newTestAggregator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/raw-email-logs":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "email backend down"}`))
		case "/raw-sms-logs":
			w.Write([]byte(`[{"timestamp": "2026-08-12T10:00:00Z", "sender_number": "+15550001111", "message_content": "hello", "detection_status": "Clean"}]`))
		case "/threats/recent":
			w.Write([]byte(threatFeed))
		case "/threat-counts":
			w.Write([]byte(`{"pending_threats": 2, "total_network_threats": 5}`))
		default:
			http.NotFound(w, r)
		}
	}))

	a.RefreshAll(context.Background())

	var buf bytes.Buffer
	a.RenderTo(&buf)
	out := buf.String()

	assert.Contains(t, out, "Recent Email Logs")
	assert.Contains(t, out, "email backend down", "failed view shows its own placeholder")
	assert.Contains(t, out, "+15550001111", "healthy views keep rendering")
	assert.Contains(t, out, "Port Scan")
	assert.Contains(t, out, "Pending Alerts")
}

func TestRenderTo_BeforeAnyRefreshShowsPlaceholders(t *testing.T) {
	a := newTestAggregator(t, http.NotFoundHandler())

	var buf bytes.Buffer
	a.RenderTo(&buf)
	out := buf.String()

	assert.Contains(t, out, "Threat Summary")
	assert.Contains(t, out, render.NoDataPlaceholder)
	assert.Contains(t, out, "Security Insights")
}

func TestRenderTo_CountersListAllNineMetrics(t *testing.T) {
	a := newTestAggregator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/threat-counts", r.URL.Path)
		w.Write([]byte(`{
			"suspicious_ip_attempts": 1, "brute_force_attacks": 2, "malware_detections": 3,
			"pending_threats": 4, "total_network_threats": 5, "total_emails_received": 6,
			"spam_emails_detected": 7, "total_sms_received": 8, "sms_spam_detected": 9
		}`))
	}))

	a.RefreshCounts(context.Background())

	var buf bytes.Buffer
	a.RenderTo(&buf)
	out := buf.String()

	for _, label := range []string{
		"Suspicious IP Attempts", "Brute Force Attacks", "Malware Detections",
		"Pending Alerts", "Total Alerts", "Total Emails", "Spam Emails",
		"Total SMS", "Spam SMS",
	} {
		assert.Contains(t, out, label)
	}
}

func TestStart_PollsEveryViewIndependently(t *testing.T) {
	var threatFetches, countFetches atomic.Int32
	a := newTestAggregator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/threats/recent":
			threatFetches.Add(1)
			w.Write([]byte(`[]`))
		case "/threat-counts":
			countFetches.Add(1)
			w.Write([]byte(`{}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.Start(ctx, 20*time.Millisecond)
	defer a.Stop()

	require.Eventually(t, func() bool {
		return threatFetches.Load() >= 2 && countFetches.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestOnUpdate_FiresAfterRefresh(t *testing.T) {
	a := newTestAggregator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	var updates atomic.Int32
	a.OnUpdate(func() { updates.Add(1) })

	a.RefreshCounts(context.Background())
	assert.Equal(t, int32(1), updates.Load())
}
