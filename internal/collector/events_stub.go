//go:build !linux && !windows

package collector

import (
	"context"
	"fmt"

	"github.com/hostbeat/agent/internal/models"
)

const eventsSupported = false

// readEvents is not implemented on this platform; the source reports itself
// unavailable and is never registered, so this is unreachable in practice.
func readEvents(_ context.Context, _ int) ([]models.EventRecord, error) {
	return nil, fmt.Errorf("system event log not supported on this platform")
}
