// Disk usage source — gathers per-device capacity information.
// Uses gopsutil for cross-platform disk metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/hostbeat/agent/internal/models"
)

// pseudoFSTypes contains filesystem types excluded from disk metrics.
// These are virtual/system filesystems and network/remote filesystems
// that don't represent local storage devices.
var pseudoFSTypes = map[string]bool{
	"devfs":       true,
	"autofs":      true,
	"tmpfs":       true,
	"sysfs":       true,
	"proc":        true,
	"procfs":      true,
	"devtmpfs":    true,
	"cgroup":      true,
	"cgroup2":     true,
	"overlay":     true,
	"squashfs":    true,
	"nsfs":        true,
	"debugfs":     true,
	"tracefs":     true,
	"securityfs":  true,
	"configfs":    true,
	"fusectl":     true,
	"mqueue":      true,
	"hugetlbfs":   true,
	"binfmt_misc": true,
	"efivarfs":    true,
	"bpf":         true,
	"ramfs":       true,
	"nfs":         true,
	"nfs4":        true,
	"cifs":        true,
	"smbfs":       true,
	"fuse.sshfs":  true,
	"fuse.rclone": true,
	"9p":          true,
	"glusterfs":   true,
	"ceph":        true,
	"fuse.ceph":   true,
}

// includePartition reports whether a partition represents real local storage
// worth sending to the ingest endpoint.
func includePartition(fstype string, totalBytes uint64) bool {
	if pseudoFSTypes[fstype] {
		return false
	}
	// Some virtual mounts report 0 size
	return totalBytes > 0
}

// DiskSource collects disk capacity per device.
type DiskSource struct{}

// NewDiskSource creates a new disk source.
func NewDiskSource() *DiskSource {
	return &DiskSource{}
}

// Name returns the source identifier.
func (s *DiskSource) Name() string { return "disks" }

// Collect gathers disk usage for all mounted partitions.
// Inaccessible partitions are silently skipped.
func (s *DiskSource) Collect(ctx context.Context) (interface{}, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	results := make([]models.DiskUsage, 0, len(partitions))
	seen := make(map[string]bool)
	for _, p := range partitions {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue // Skip inaccessible partitions
		}
		if !includePartition(p.Fstype, usage.Total) {
			continue
		}
		// A device can back several mount points; report it once.
		if seen[p.Device] {
			continue
		}
		seen[p.Device] = true

		results = append(results, models.DiskUsage{
			Device:     p.Device,
			TotalBytes: usage.Total,
			FreeBytes:  usage.Free,
		})
	}

	return results, nil
}

// IsAvailable returns true — disk metrics are available on all platforms.
func (s *DiskSource) IsAvailable() bool { return true }
