//go:build windows

package collector

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/hostbeat/agent/internal/models"
)

const eventsSupported = true

// readEvents reads the newest records from the Windows System event log.
func readEvents(ctx context.Context, maxCount int) ([]models.EventRecord, error) {
	script := fmt.Sprintf(
		"Get-WinEvent -LogName System -MaxEvents %d | "+
			"Select-Object TimeCreated,Id,LevelDisplayName,ProviderName,Message | "+
			"ConvertTo-Json -Depth 4", maxCount)

	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Output()
	if err != nil {
		return nil, fmt.Errorf("powershell Get-WinEvent: %w", err)
	}
	return parseWinEvents(out, maxCount), nil
}
