// Package snapshot assembles one immutable Snapshot per polling cycle from
// the registered metric sources. Assembly never fails: every source failure
// degrades to an absent or empty field for that domain only.
package snapshot

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"

	"github.com/hostbeat/agent/internal/collector"
	"github.com/hostbeat/agent/internal/config"
	"github.com/hostbeat/agent/internal/delta"
	"github.com/hostbeat/agent/internal/models"
)

// Assembler orchestrates the metric sources and the per-process delta
// tracker into one Snapshot per cycle. It owns the previous-collection
// timestamp used to compute true wall-clock intervals.
//
// Not safe for concurrent use; the polling loop is its only caller.
type Assembler struct {
	registry *collector.Registry
	tracker  *delta.Tracker
	cfg      *config.Config
	logger   *zap.Logger
	agentID  string

	prevCollectedAt time.Time

	// overridable in tests
	countCores func(context.Context) (int, error)
}

// New creates an Assembler over the given source registry.
func New(registry *collector.Registry, cfg *config.Config, logger *zap.Logger) *Assembler {
	return &Assembler{
		registry: registry,
		tracker:  delta.NewTracker(),
		cfg:      cfg,
		logger:   logger,
		agentID:  cfg.ResolveAgentID(),
		countCores: func(ctx context.Context) (int, error) {
			return cpu.CountsWithContext(ctx, true)
		},
	}
}

// Assemble collects all sources and builds the cycle's Snapshot.
// now is the cycle's collection instant; the elapsed interval fed to the
// delta tracker is the true wall-clock gap since the previous call, not the
// configured nominal interval, so utilization stays correct under jitter.
func (a *Assembler) Assemble(ctx context.Context, now time.Time) models.Snapshot {
	elapsed := a.cfg.Collection.Interval.Seconds()
	if !a.prevCollectedAt.IsZero() {
		elapsed = now.Sub(a.prevCollectedAt).Seconds()
	}
	// Advance regardless of what happens below, so a bad cycle doesn't
	// stretch the next cycle's interval.
	a.prevCollectedAt = now

	collectCtx, cancel := context.WithTimeout(ctx, a.cfg.Collection.Timeout.Duration)
	defer cancel()

	results := a.registry.CollectAll(collectCtx)

	snap := models.Snapshot{
		AgentID:     a.agentID,
		Hostname:    a.hostname(),
		IP:          resolvePrimaryIP(),
		CollectedAt: now.UTC().Truncate(time.Second),
		Metrics: models.Metrics{
			Disks: []models.DiskUsage{},
		},
		Processes: []models.ProcessSample{},
		Events:    []models.EventRecord{},
	}

	if data, ok := results["cpu"]; ok {
		if pct, ok := data.(float64); ok {
			snap.Metrics.CPUPercent = &pct
		}
	}

	if data, ok := results["memory"]; ok {
		if m, ok := data.(collector.MemoryResult); ok {
			total, used := m.TotalBytes, m.UsedBytes
			snap.Metrics.Memory.TotalBytes = &total
			snap.Metrics.Memory.UsedBytes = &used
		}
	}

	if data, ok := results["disks"]; ok {
		if disks, ok := data.([]models.DiskUsage); ok {
			snap.Metrics.Disks = disks
		}
	}

	if data, ok := results["processes"]; ok {
		if raws, ok := data.([]collector.RawProcess); ok {
			snap.Processes = a.sampleProcesses(collectCtx, raws, elapsed)
		}
	}

	if data, ok := results["events"]; ok {
		if events, ok := data.([]models.EventRecord); ok {
			snap.Events = events
		}
	}

	a.logger.Debug("Assembled snapshot",
		zap.Float64("elapsed_seconds", elapsed),
		zap.Int("processes", len(snap.Processes)),
		zap.Int("events", len(snap.Events)))

	return snap
}

// sampleProcesses feeds raw readings through the delta tracker, preserving
// the ranked order produced by the process source.
func (a *Assembler) sampleProcesses(ctx context.Context, raws []collector.RawProcess, elapsed float64) []models.ProcessSample {
	cores := a.logicalCores(ctx)

	samples := make([]models.ProcessSample, 0, len(raws))
	for _, raw := range raws {
		sample := models.ProcessSample{
			PID:        raw.PID,
			Name:       raw.Name,
			CPUPercent: a.tracker.Observe(raw.PID, raw.CPUSeconds, elapsed, cores),
		}
		if raw.RSSBytes != nil {
			mb := float64(*raw.RSSBytes) / (1024 * 1024)
			sample.MemoryMB = &mb
		}
		samples = append(samples, sample)
	}
	return samples
}

// logicalCores returns the host's logical core count, treating failures and
// zero-core reports as a single core to avoid dividing by zero.
func (a *Assembler) logicalCores(ctx context.Context) int {
	n, err := a.countCores(ctx)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// hostname returns the host name, falling back to the agent identity so the
// snapshot stays well-formed even if the lookup fails.
func (a *Assembler) hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return a.agentID
	}
	return name
}

// resolvePrimaryIP returns the host's outbound IP address, best effort.
// Dialing UDP performs no network I/O; it only asks the kernel which local
// address would be used for an external destination.
func resolvePrimaryIP() *string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil
	}
	ip := addr.IP.String()
	return &ip
}
