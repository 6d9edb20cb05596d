package collector

import (
	"context"
	"strings"
	"testing"

	"github.com/hostbeat/agent/internal/models"
)

func TestEventsSource_ZeroMaxReturnsEmptyList(t *testing.T) {
	s := NewEventsSource(0)

	data, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect = %v, want nil (disabled, not failed)", err)
	}
	records, ok := data.([]models.EventRecord)
	if !ok {
		t.Fatalf("Collect returned %T, want []models.EventRecord", data)
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}

const journalFixture = `{"__REALTIME_TIMESTAMP":"1700000000000000","MESSAGE":"Started Daily apt upgrade.","PRIORITY":"6","SYSLOG_IDENTIFIER":"systemd","MESSAGE_ID":"39f53479d3a045ac8e11786248231fbf"}
{"__REALTIME_TIMESTAMP":"1700000060000000","MESSAGE":"Out of memory: Killed process 1234","PRIORITY":"3","_COMM":"kernel"}
not json at all
{"__REALTIME_TIMESTAMP":"1700000120000000","MESSAGE":"link becomes ready","PRIORITY":"6","SYSLOG_IDENTIFIER":"kernel"}`

func TestParseJournalEvents(t *testing.T) {
	records := parseJournalEvents([]byte(journalFixture), 20)

	if len(records) != 3 {
		t.Fatalf("len = %d, want 3 (garbage line skipped)", len(records))
	}

	first := records[0]
	if first.Timestamp == nil || *first.Timestamp != "2023-11-14T22:13:20Z" {
		t.Errorf("Timestamp = %v, want 2023-11-14T22:13:20Z", first.Timestamp)
	}
	if first.Level == nil || *first.Level != "info" {
		t.Errorf("Level = %v, want info", first.Level)
	}
	if first.Source == nil || *first.Source != "systemd" {
		t.Errorf("Source = %v, want systemd", first.Source)
	}
	if first.ID == nil || *first.ID != "39f53479d3a045ac8e11786248231fbf" {
		t.Errorf("ID = %v, want message id", first.ID)
	}

	second := records[1]
	if second.Level == nil || *second.Level != "error" {
		t.Errorf("Level = %v, want error", second.Level)
	}
	if second.Source == nil || *second.Source != "kernel" {
		t.Errorf("Source = %v, want _COMM fallback", second.Source)
	}
	if second.ID != nil {
		t.Errorf("ID = %v, want nil", second.ID)
	}
}

func TestParseJournalEvents_HonorsMaxCount(t *testing.T) {
	records := parseJournalEvents([]byte(journalFixture), 1)
	if len(records) != 1 {
		t.Errorf("len = %d, want 1", len(records))
	}
}

func TestParseWinEvents_Array(t *testing.T) {
	out := `[
	  {"TimeCreated":"\/Date(1700000000000)\/","Id":7036,"LevelDisplayName":"Information","ProviderName":"Service Control Manager","Message":"The Windows Update service entered the running state."},
	  {"TimeCreated":"\/Date(1700000060000)\/","Id":6008,"LevelDisplayName":"Error","ProviderName":"EventLog","Message":null}
	]`

	records := parseWinEvents([]byte(out), 20)
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ID == nil || *records[0].ID != "7036" {
		t.Errorf("ID = %v, want 7036", records[0].ID)
	}
	if records[0].Level == nil || *records[0].Level != "Information" {
		t.Errorf("Level = %v, want Information", records[0].Level)
	}
	if records[0].Timestamp == nil || !strings.Contains(*records[0].Timestamp, "1700000000000") {
		t.Errorf("Timestamp = %v, want pass-through", records[0].Timestamp)
	}
	if records[1].Message != nil {
		t.Errorf("Message = %v, want nil for JSON null", records[1].Message)
	}
}

func TestParseWinEvents_SingleObject(t *testing.T) {
	out := `{"TimeCreated":"\/Date(1700000000000)\/","Id":1,"LevelDisplayName":"Warning","ProviderName":"disk","Message":"bad block"}`

	records := parseWinEvents([]byte(out), 20)
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].Source == nil || *records[0].Source != "disk" {
		t.Errorf("Source = %v, want disk", records[0].Source)
	}
}

func TestParseWinEvents_EmptyAndGarbage(t *testing.T) {
	if got := parseWinEvents(nil, 20); len(got) != 0 {
		t.Errorf("nil input: len = %d, want 0", len(got))
	}
	if got := parseWinEvents([]byte("  \n"), 20); len(got) != 0 {
		t.Errorf("blank input: len = %d, want 0", len(got))
	}
	if got := parseWinEvents([]byte("<html>error</html>"), 20); len(got) != 0 {
		t.Errorf("garbage input: len = %d, want 0", len(got))
	}
}
