// Package dashboard keeps the named live-data views of the client
// synchronized from their backend endpoints and renders them as one
// terminal dashboard.
//
// Each view is an independent failure domain: a fetch error degrades that
// view to an explicit placeholder and never blocks or delays the others.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bennieslab/threatwatch/internal/client/api"
	"github.com/bennieslab/threatwatch/internal/client/poll"
	"github.com/bennieslab/threatwatch/internal/client/render"
	"github.com/bennieslab/threatwatch/internal/logging"
)

// NetworkSourceType tags threat events originating from the network IDS.
const NetworkSourceType = "network_ids"

// View names, used for scheduling and logging.
const (
	ViewCounters = "counters"
	ViewEmailLog = "email-log"
	ViewSMSLog   = "sms-log"
	ViewNetwork  = "network-threats"
	ViewInsights = "security-insights"
)

// listView holds the latest state of one tabular view.
type listView struct {
	title   string
	table   *render.Table
	records []render.Record
	err     error
}

// Aggregator composes the HTTP client, the polling scheduler and the table
// renderer to keep the five named views fresh.
type Aggregator struct {
	client *api.Client
	sched  *poll.Scheduler
	log    logging.Logger

	mu       sync.Mutex
	counts   *api.ThreatCounts
	countErr error
	emails   *listView
	sms      *listView
	network  *listView
	insights *listView
	onUpdate func()
}

// New constructs an Aggregator over the given collaborators.
func New(client *api.Client, sched *poll.Scheduler, log logging.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		sched:  sched,
		log:    log,
		emails: &listView{
			title: "Recent Email Logs",
			table: render.NewTable(log, EmailLogColumns()),
		},
		sms: &listView{
			title: "Recent SMS Logs",
			table: render.NewTable(log, SMSLogColumns()),
		},
		network: &listView{
			title: "Recent Network Threats",
			table: render.NewTable(log, NetworkThreatColumns()),
		},
		insights: &listView{
			title: "Security Insights",
			table: render.NewTable(log, SecurityInsightColumns()),
		},
	}
}

// OnUpdate registers a callback invoked after any view refreshes; the
// composition root uses it to redraw the screen.
func (a *Aggregator) OnUpdate(fn func()) {
	a.mu.Lock()
	a.onUpdate = fn
	a.mu.Unlock()
}

func (a *Aggregator) notify() {
	a.mu.Lock()
	fn := a.onUpdate
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// FilterBySourceType returns the records whose source_type equals tag.
func FilterBySourceType(records []render.Record, tag string) []render.Record {
	filtered := make([]render.Record, 0, len(records))
	for _, rec := range records {
		if asString(rec["source_type"]) == tag {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// RefreshCounts re-fetches the summary counters.
func (a *Aggregator) RefreshCounts(ctx context.Context) {
	counts, err := a.client.FetchCounts(ctx)

	a.mu.Lock()
	if err != nil {
		a.countErr = err
	} else {
		a.counts, a.countErr = counts, nil
	}
	a.mu.Unlock()

	if err != nil {
		a.log.Warn(ctx, "view refresh failed", "view", ViewCounters, "err", err)
	}
	a.notify()
}

func (a *Aggregator) refreshList(ctx context.Context, name, path string, view *listView) {
	records, err := a.client.FetchRecords(ctx, path, false)

	a.mu.Lock()
	if err != nil {
		view.err = err
	} else {
		view.records, view.err = records, nil
	}
	a.mu.Unlock()

	if err != nil {
		a.log.Warn(ctx, "view refresh failed", "view", name, "err", err)
	}
	a.notify()
}

// RefreshEmailLog re-fetches the raw email log view.
func (a *Aggregator) RefreshEmailLog(ctx context.Context) {
	a.refreshList(ctx, ViewEmailLog, "/raw-email-logs", a.emails)
}

// RefreshSMSLog re-fetches the raw SMS log view.
func (a *Aggregator) RefreshSMSLog(ctx context.Context) {
	a.refreshList(ctx, ViewSMSLog, "/raw-sms-logs", a.sms)
}

// RefreshThreats re-fetches the shared recent-threat collection once and
// derives both the network-only view and the merged insight view from that
// single fetch, so the two views never race on the same feed.
func (a *Aggregator) RefreshThreats(ctx context.Context) {
	records, err := a.client.FetchRecords(ctx, "/threats/recent", false)

	a.mu.Lock()
	if err != nil {
		a.network.err = err
		a.insights.err = err
	} else {
		a.network.records = FilterBySourceType(records, NetworkSourceType)
		a.network.err = nil
		a.insights.records = records
		a.insights.err = nil
	}
	a.mu.Unlock()

	if err != nil {
		a.log.Warn(ctx, "view refresh failed", "view", ViewInsights, "err", err)
	}
	a.notify()
}

// RefreshAll runs every refresh once, sequentially. Used before the
// scheduler starts, so the first paint is not an empty-state flash.
func (a *Aggregator) RefreshAll(ctx context.Context) {
	a.RefreshCounts(ctx)
	a.RefreshEmailLog(ctx)
	a.RefreshSMSLog(ctx)
	a.RefreshThreats(ctx)
}

// Start registers the polling loops on the scheduler, one per independent
// fetch. The two threat views share one loop by design (single fetch).
func (a *Aggregator) Start(ctx context.Context, interval time.Duration) {
	a.sched.Start(ctx, ViewCounters, interval, a.RefreshCounts)
	a.sched.Start(ctx, ViewEmailLog, interval, a.RefreshEmailLog)
	a.sched.Start(ctx, ViewSMSLog, interval, a.RefreshSMSLog)
	a.sched.Start(ctx, ViewInsights, interval, a.RefreshThreats)
}

// Stop tears down every polling loop.
func (a *Aggregator) Stop() {
	a.sched.StopAll()
}

// metric is one summary counter with its display tone.
type metric struct {
	label string
	value int64
	tone  func(string) string
}

func plain(s string) string { return s }

func (a *Aggregator) metrics() []metric {
	c := a.counts
	if c == nil {
		return nil
	}
	alert := func(v int64) func(string) string {
		if v > 0 {
			return render.Danger
		}
		return plain
	}
	pending := func(v int64) func(string) string {
		if v > 0 {
			return render.Warning
		}
		return plain
	}
	return []metric{
		{"Suspicious IP Attempts", c.SuspiciousIPAttempts, alert(c.SuspiciousIPAttempts)},
		{"Brute Force Attacks", c.BruteForceAttacks, alert(c.BruteForceAttacks)},
		{"Malware Detections", c.MalwareDetections, alert(c.MalwareDetections)},
		{"Pending Alerts", c.PendingThreats, pending(c.PendingThreats)},
		{"Total Alerts", c.TotalNetworkThreats, plain},
		{"Total Emails", c.TotalEmailsReceived, plain},
		{"Spam Emails", c.SpamEmailsDetected, alert(c.SpamEmailsDetected)},
		{"Total SMS", c.TotalSMSReceived, plain},
		{"Spam SMS", c.SMSSpamDetected, alert(c.SMSSpamDetected)},
	}
}

func sectionHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

// RenderTo draws the complete dashboard snapshot: summary counters first,
// then the four tabular views. Failed views degrade to their own
// placeholder line instead of blanking the whole output.
func (a *Aggregator) RenderTo(w io.Writer) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sectionHeader(w, "Threat Summary")
	switch {
	case a.countErr != nil:
		fmt.Fprintf(w, "Failed to refresh: %s\n", a.countErr)
	case a.counts == nil:
		fmt.Fprintln(w, render.NoDataPlaceholder)
	default:
		for _, m := range a.metrics() {
			fmt.Fprintf(w, "%-24s %s\n", m.label+":", m.tone(fmt.Sprint(m.value)))
		}
	}

	for _, view := range []*listView{a.emails, a.sms, a.network, a.insights} {
		sectionHeader(w, view.title)
		if view.err != nil {
			fmt.Fprintf(w, "Failed to refresh: %s\n", view.err)
			continue
		}
		view.table.Render(w, view.records)
	}
}
