package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/bennieslab/threatwatch/internal/client/render"
)

// timestampLayouts are the wire formats the backends emit. The first match
// wins; an unparseable value is shown as-is rather than hidden.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func parseTimestamp(v any) (time.Time, bool) {
	s := asString(v)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Local(), true
		}
	}
	return time.Time{}, false
}

func formatTimestamp(v any) string {
	s := asString(v)
	if s == "" {
		return "N/A"
	}
	if ts, ok := parseTimestamp(v); ok {
		return ts.Format("2006-01-02 15:04:05")
	}
	return s
}

func formatTimeOnly(v any) string {
	s := asString(v)
	if s == "" {
		return "N/A"
	}
	if ts, ok := parseTimestamp(v); ok {
		return ts.Format("15:04:05")
	}
	return s
}

func truncated(v any, max int, empty string) string {
	s := asString(v)
	if s == "" {
		return empty
	}
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}

func orUnknown(v any) string {
	if s := asString(v); s != "" {
		return s
	}
	return "Unknown"
}

// formatDetectionStatus colors spam verdicts; anything else passes as-is.
func formatDetectionStatus(v any) string {
	s := asString(v)
	if s == "" {
		return "Unknown"
	}
	if strings.Contains(strings.ToLower(s), "spam") {
		return render.Danger(s)
	}
	return s
}

// formatSourceTag renders the source_type tag the way the dashboard shows it:
// underscores spaced out, upper-cased, with channel coloring.
func formatSourceTag(v any) string {
	s := asString(v)
	if s == "" {
		return "Unknown"
	}
	formatted := strings.ToUpper(strings.ReplaceAll(s, "_", " "))
	switch {
	case strings.Contains(s, "email"):
		return render.Info(formatted)
	case strings.Contains(s, "sms"):
		return render.Success(formatted)
	default:
		return formatted
	}
}

// EmailLogColumns is the column set for the raw email log view.
func EmailLogColumns() []render.ColumnSpec {
	return []render.ColumnSpec{
		{Header: "Timestamp", Field: "received_timestamp", Width: 20, Format: formatTimestamp},
		{Header: "Sender", Field: "sender", Width: 25, Format: orUnknown},
		{Header: "Subject", Field: "subject", Width: 35, Format: func(v any) string {
			return truncated(v, 30, "No subject")
		}},
		{Header: "Status", Field: "detection_status", Width: 20, Format: formatDetectionStatus},
	}
}

// SMSLogColumns is the column set for the raw SMS log view.
func SMSLogColumns() []render.ColumnSpec {
	return []render.ColumnSpec{
		{Header: "Timestamp", Field: "timestamp", Width: 20, Format: formatTimestamp},
		{Header: "Sender", Field: "sender_number", Width: 25, Format: orUnknown},
		{Header: "Content", Field: "message_content", Width: 35, Format: func(v any) string {
			return truncated(v, 30, "No content")
		}},
		{Header: "Status", Field: "detection_status", Width: 20, Format: formatDetectionStatus},
	}
}

// NetworkThreatColumns is the column set for the network-only threat view.
func NetworkThreatColumns() []render.ColumnSpec {
	return []render.ColumnSpec{
		{Header: "Timestamp", Field: "timestamp", Width: 20, Format: formatTimestamp},
		{Header: "Threat Type", Field: "threat_type", Width: 30, Format: orUnknown},
		{Header: "Source IP", Field: "source_identifier", Width: 30, Format: orUnknown},
		{Header: "Severity", Field: "severity", Width: 20, Format: orUnknown, Severity: true},
	}
}

// SecurityInsightColumns is the column set for the merged threat view.
func SecurityInsightColumns() []render.ColumnSpec {
	return []render.ColumnSpec{
		{Header: "Time", Field: "timestamp", Width: 15, Format: formatTimeOnly},
		{Header: "Source", Field: "source_type", Width: 20, Format: formatSourceTag},
		{Header: "Threat", Field: "threat_type", Width: 30, Format: orUnknown},
		{Header: "Source ID", Field: "source_identifier", Width: 20, Format: orUnknown},
		{Header: "Severity", Field: "severity", Width: 15, Format: orUnknown, Severity: true},
	}
}

// MailboxEmailColumns is the column set for per-user email mailboxes
// (sent and spam folders).
func MailboxEmailColumns() []render.ColumnSpec {
	return []render.ColumnSpec{
		{Header: "Timestamp", Field: "received_timestamp", Width: 20, Format: formatTimestamp},
		{Header: "From", Field: "sender", Width: 20, Format: orUnknown},
		{Header: "To", Field: "recipients", Width: 20, Format: orUnknown},
		{Header: "Subject", Field: "subject", Width: 25, Format: func(v any) string {
			return truncated(v, 30, "No subject")
		}},
		{Header: "Status", Field: "detection_status", Width: 15, Format: formatDetectionStatus},
	}
}

// MailboxSMSColumns is the column set for per-user SMS mailboxes.
func MailboxSMSColumns() []render.ColumnSpec {
	return []render.ColumnSpec{
		{Header: "Timestamp", Field: "timestamp", Width: 20, Format: formatTimestamp},
		{Header: "From", Field: "sender_number", Width: 20, Format: orUnknown},
		{Header: "To", Field: "recipient_number", Width: 20, Format: orUnknown},
		{Header: "Content", Field: "message_content", Width: 25, Format: func(v any) string {
			return truncated(v, 30, "No content")
		}},
		{Header: "Status", Field: "detection_status", Width: 15, Format: formatDetectionStatus},
	}
}
