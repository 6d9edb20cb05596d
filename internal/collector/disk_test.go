package collector

import "testing"

func TestIncludePartition(t *testing.T) {
	cases := []struct {
		fstype string
		total  uint64
		want   bool
	}{
		{"ext4", 500_000_000_000, true},
		{"xfs", 1_000_000_000, true},
		{"ntfs", 250_000_000_000, true},
		{"tmpfs", 8_000_000_000, false},
		{"proc", 0, false},
		{"nfs4", 1_000_000_000_000, false},
		{"ext4", 0, false}, // zero-size virtual mount
	}
	for _, tc := range cases {
		if got := includePartition(tc.fstype, tc.total); got != tc.want {
			t.Errorf("includePartition(%q, %d) = %v, want %v", tc.fstype, tc.total, got, tc.want)
		}
	}
}
