//go:build linux

package collector

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/hostbeat/agent/internal/models"
)

const eventsSupported = true

// readEvents reads the newest system-log records from the systemd journal.
func readEvents(ctx context.Context, maxCount int) ([]models.EventRecord, error) {
	out, err := exec.CommandContext(ctx, "journalctl",
		"--system",
		"--no-pager",
		"-o", "json",
		"-n", strconv.Itoa(maxCount),
	).Output()
	if err != nil {
		return nil, fmt.Errorf("journalctl: %w", err)
	}
	return parseJournalEvents(out, maxCount), nil
}
