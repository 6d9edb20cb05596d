// System event log source — gathers the most recent system-log records.
// Acquisition is platform-specific (journalctl on Linux, the Windows event
// log via PowerShell); records are passed through aside from field renaming.
package collector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/hostbeat/agent/internal/models"
)

// EventsSource collects recent system-log records.
type EventsSource struct {
	maxCount int
}

// NewEventsSource creates an events source returning at most maxCount records.
func NewEventsSource(maxCount int) *EventsSource {
	return &EventsSource{maxCount: maxCount}
}

// Name returns the source identifier.
func (s *EventsSource) Name() string { return "events" }

// Collect reads the newest records from the host's system log.
// A zero maxCount means events are disabled: the platform reader is never
// invoked (Get-WinEvent rejects -MaxEvents 0) and the snapshot carries an
// empty list rather than an unavailable source.
func (s *EventsSource) Collect(ctx context.Context) (interface{}, error) {
	if s.maxCount <= 0 {
		return []models.EventRecord{}, nil
	}
	return readEvents(ctx, s.maxCount)
}

// IsAvailable reports whether this platform has a supported event log reader.
func (s *EventsSource) IsAvailable() bool { return eventsSupported }

// journalPriorities maps syslog priority digits to level names.
var journalPriorities = map[string]string{
	"0": "emergency",
	"1": "alert",
	"2": "critical",
	"3": "error",
	"4": "warning",
	"5": "notice",
	"6": "info",
	"7": "debug",
}

// parseJournalEvents parses `journalctl -o json` output: one JSON object per
// line, newest records last. Unparseable lines are skipped.
func parseJournalEvents(output []byte, maxCount int) []models.EventRecord {
	records := []models.EventRecord{}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if maxCount >= 0 && len(records) >= maxCount {
			break
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}

		rec := models.EventRecord{
			Timestamp: journalTimestamp(entry["__REALTIME_TIMESTAMP"]),
			Message:   stringify(entry["MESSAGE"]),
		}
		if pri := stringify(entry["PRIORITY"]); pri != nil {
			if level, ok := journalPriorities[*pri]; ok {
				rec.Level = &level
			} else {
				rec.Level = pri
			}
		}
		if src := stringify(entry["SYSLOG_IDENTIFIER"]); src != nil {
			rec.Source = src
		} else {
			rec.Source = stringify(entry["_COMM"])
		}
		rec.ID = stringify(entry["MESSAGE_ID"])

		records = append(records, rec)
	}

	return records
}

// journalTimestamp converts the journal's microsecond epoch string to UTC RFC3339.
func journalTimestamp(v interface{}) *string {
	raw := stringify(v)
	if raw == nil {
		return nil
	}
	usec, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return raw
	}
	ts := time.UnixMicro(usec).UTC().Format(time.RFC3339)
	return &ts
}

// parseWinEvents parses `Get-WinEvent | ConvertTo-Json` output. PowerShell
// emits a bare object for a single record and an array otherwise.
func parseWinEvents(output []byte, maxCount int) []models.EventRecord {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return []models.EventRecord{}
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(output, &entries); err != nil {
		var single map[string]interface{}
		if err := json.Unmarshal(output, &single); err != nil {
			return []models.EventRecord{}
		}
		entries = []map[string]interface{}{single}
	}

	records := make([]models.EventRecord, 0, len(entries))
	for _, entry := range entries {
		if maxCount >= 0 && len(records) >= maxCount {
			break
		}
		records = append(records, models.EventRecord{
			Timestamp: stringify(entry["TimeCreated"]),
			ID:        stringify(entry["Id"]),
			Level:     stringify(entry["LevelDisplayName"]),
			Source:    stringify(entry["ProviderName"]),
			Message:   stringify(entry["Message"]),
		})
	}
	return records
}

// stringify converts a decoded JSON scalar to a string pointer.
// Non-scalar or missing values yield nil.
func stringify(v interface{}) *string {
	switch val := v.(type) {
	case string:
		return &val
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(val)
		return &s
	default:
		return nil
	}
}
