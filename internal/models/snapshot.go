// Package models defines the snapshot data structures used throughout the agent.
// These structures are serialized to JSON for transmission to the ingest API;
// optional fields are pointers so that "unavailable" serializes as null.
package models

import "time"

// Snapshot represents a single point-in-time collection of host state.
// It is created once per polling cycle, delivered once, and never mutated.
type Snapshot struct {
	AgentID     string          `json:"agent_id"`
	Hostname    string          `json:"hostname"`
	IP          *string         `json:"ip"`
	CollectedAt time.Time       `json:"collected_at"`
	Metrics     Metrics         `json:"metrics"`
	Processes   []ProcessSample `json:"processes"`
	Events      []EventRecord   `json:"events"`
}

// Metrics holds host-wide resource usage. Each field may be absent
// independently of the others when its source was unavailable.
type Metrics struct {
	CPUPercent *float64    `json:"cpu_percent"`
	Memory     MemoryUsage `json:"memory"`
	Disks      []DiskUsage `json:"disks"`
}

// MemoryUsage holds total and used physical memory in bytes.
type MemoryUsage struct {
	TotalBytes *uint64 `json:"total_bytes"`
	UsedBytes  *uint64 `json:"used_bytes"`
}

// DiskUsage represents capacity for a single disk device.
type DiskUsage struct {
	Device     string `json:"device"`
	TotalBytes uint64 `json:"total_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
}

// ProcessSample represents a single process's resource usage.
// CPUPercent is absent on a process's first-ever observation, since there is
// no previous cumulative reading to diff against.
type ProcessSample struct {
	PID        int32    `json:"pid"`
	Name       string   `json:"name"`
	CPUPercent *float64 `json:"cpu_percent"`
	MemoryMB   *float64 `json:"memory_mb"`
}

// EventRecord is one system-log entry, passed through from the host's event
// source aside from field renaming.
type EventRecord struct {
	Timestamp *string `json:"timestamp"`
	ID        *string `json:"id"`
	Level     *string `json:"level"`
	Source    *string `json:"source"`
	Message   *string `json:"message"`
}
