package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hostbeat/agent/internal/collector"
	"github.com/hostbeat/agent/internal/config"
	"github.com/hostbeat/agent/internal/models"
)

// fakeSource is a test double for a metric source.
type fakeSource struct {
	name string
	data interface{}
	err  error
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Collect(context.Context) (interface{}, error) {
	return f.data, f.err
}
func (f *fakeSource) IsAvailable() bool { return true }

func newTestAssembler(t *testing.T, sources ...collector.Source) *Assembler {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Agent.ID = "test-agent"

	registry := collector.NewRegistry(zap.NewNop())
	for _, s := range sources {
		registry.Register(s)
	}

	a := New(registry, cfg, zap.NewNop())
	a.countCores = func(context.Context) (int, error) { return 1, nil }
	return a
}

func uintPtr(v uint64) *uint64 { return &v }

func TestAssemble_AllSourcesFailing(t *testing.T) {
	a := newTestAssembler(t,
		&fakeSource{name: "cpu", err: errors.New("wmic missing")},
		&fakeSource{name: "memory", err: errors.New("permission denied")},
		&fakeSource{name: "disks", err: errors.New("io error")},
		&fakeSource{name: "processes", err: errors.New("proc unreadable")},
		&fakeSource{name: "events", err: errors.New("journal gone")},
	)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := a.Assemble(context.Background(), now)

	if snap.AgentID != "test-agent" {
		t.Errorf("AgentID = %q, want test-agent", snap.AgentID)
	}
	if snap.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if !snap.CollectedAt.Equal(now) {
		t.Errorf("CollectedAt = %v, want %v", snap.CollectedAt, now)
	}
	if snap.Metrics.CPUPercent != nil {
		t.Errorf("CPUPercent = %v, want nil", *snap.Metrics.CPUPercent)
	}
	if snap.Metrics.Memory.TotalBytes != nil || snap.Metrics.Memory.UsedBytes != nil {
		t.Error("Memory fields should be nil")
	}
	if snap.Metrics.Disks == nil || len(snap.Metrics.Disks) != 0 {
		t.Errorf("Disks = %v, want empty non-nil slice", snap.Metrics.Disks)
	}
	if snap.Processes == nil || len(snap.Processes) != 0 {
		t.Errorf("Processes = %v, want empty non-nil slice", snap.Processes)
	}
	if snap.Events == nil || len(snap.Events) != 0 {
		t.Errorf("Events = %v, want empty non-nil slice", snap.Events)
	}
}

func TestAssemble_ExtractsMetricDomains(t *testing.T) {
	a := newTestAssembler(t,
		&fakeSource{name: "cpu", data: 42.5},
		&fakeSource{name: "memory", data: collector.MemoryResult{TotalBytes: 8 << 30, UsedBytes: 4 << 30}},
		&fakeSource{name: "disks", data: []models.DiskUsage{
			{Device: "/dev/sda1", TotalBytes: 500e9, FreeBytes: 100e9},
		}},
	)

	snap := a.Assemble(context.Background(), time.Now())

	if snap.Metrics.CPUPercent == nil || *snap.Metrics.CPUPercent != 42.5 {
		t.Errorf("CPUPercent = %v, want 42.5", snap.Metrics.CPUPercent)
	}
	if snap.Metrics.Memory.TotalBytes == nil || *snap.Metrics.Memory.TotalBytes != 8<<30 {
		t.Errorf("Memory.TotalBytes = %v, want 8GiB", snap.Metrics.Memory.TotalBytes)
	}
	if len(snap.Metrics.Disks) != 1 || snap.Metrics.Disks[0].Device != "/dev/sda1" {
		t.Errorf("Disks = %v, want one /dev/sda1 entry", snap.Metrics.Disks)
	}
}

func TestAssemble_FirstCycleProcessUtilizationAbsent(t *testing.T) {
	a := newTestAssembler(t,
		&fakeSource{name: "processes", data: []collector.RawProcess{
			{PID: 2, Name: "postgres", CPUSeconds: 9, RSSBytes: uintPtr(256 << 20)},
			{PID: 1, Name: "nginx", CPUSeconds: 5},
		}},
	)

	snap := a.Assemble(context.Background(), time.Now())

	if len(snap.Processes) != 2 {
		t.Fatalf("len(Processes) = %d, want 2", len(snap.Processes))
	}
	if snap.Processes[0].PID != 2 || snap.Processes[1].PID != 1 {
		t.Errorf("process order = [%d %d], want source order [2 1]",
			snap.Processes[0].PID, snap.Processes[1].PID)
	}
	for _, p := range snap.Processes {
		if p.CPUPercent != nil {
			t.Errorf("pid %d CPUPercent = %v, want nil on first observation", p.PID, *p.CPUPercent)
		}
	}
	if snap.Processes[0].MemoryMB == nil || *snap.Processes[0].MemoryMB != 256 {
		t.Errorf("MemoryMB = %v, want 256", snap.Processes[0].MemoryMB)
	}
	if snap.Processes[1].MemoryMB != nil {
		t.Errorf("MemoryMB = %v, want nil when RSS unavailable", *snap.Processes[1].MemoryMB)
	}
}

func TestAssemble_UsesWallClockInterval(t *testing.T) {
	src := &fakeSource{name: "processes", data: []collector.RawProcess{
		{PID: 7, Name: "worker", CPUSeconds: 10},
	}}
	a := newTestAssembler(t, src)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a.Assemble(context.Background(), start)

	// 10 CPU-seconds consumed over a 20s wall-clock gap on 1 core = 50%,
	// even though the nominal interval is 30s.
	src.data = []collector.RawProcess{{PID: 7, Name: "worker", CPUSeconds: 20}}
	snap := a.Assemble(context.Background(), start.Add(20*time.Second))

	if len(snap.Processes) != 1 {
		t.Fatalf("len(Processes) = %d, want 1", len(snap.Processes))
	}
	got := snap.Processes[0].CPUPercent
	if got == nil {
		t.Fatal("CPUPercent = nil, want value on second observation")
	}
	if *got != 50.0 {
		t.Errorf("CPUPercent = %v, want 50.0", *got)
	}
}

func TestAssemble_EventsPassThrough(t *testing.T) {
	msg := "disk failure imminent"
	a := newTestAssembler(t,
		&fakeSource{name: "events", data: []models.EventRecord{
			{Message: &msg},
		}},
	)

	snap := a.Assemble(context.Background(), time.Now())
	if len(snap.Events) != 1 || snap.Events[0].Message == nil || *snap.Events[0].Message != msg {
		t.Errorf("Events = %v, want single pass-through record", snap.Events)
	}
}

func TestAssemble_CollectedAtSecondPrecisionUTC(t *testing.T) {
	a := newTestAssembler(t)

	local := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2024, 3, 1, 17, 30, 45, 123456789, local)
	snap := a.Assemble(context.Background(), now)

	if snap.CollectedAt.Location() != time.UTC {
		t.Errorf("CollectedAt location = %v, want UTC", snap.CollectedAt.Location())
	}
	if snap.CollectedAt.Nanosecond() != 0 {
		t.Errorf("CollectedAt nanoseconds = %d, want 0", snap.CollectedAt.Nanosecond())
	}
	if got := snap.CollectedAt.Format(time.RFC3339); got != "2024-03-01T12:30:45Z" {
		t.Errorf("CollectedAt = %q, want 2024-03-01T12:30:45Z", got)
	}
}
