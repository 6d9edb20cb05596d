//go:build windows

// Package service provides Windows Service integration.
// When running under the SCM, stop/shutdown requests cancel the polling
// loop's context so the in-flight cycle can finish promptly.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/windows/svc"
)

const serviceName = "HostbeatAgent"

// Agent implements the Windows service interface (svc.Handler).
type Agent struct {
	logger *zap.Logger
	runFn  func(ctx context.Context)
}

// New creates a Windows service wrapper. runFn is called with a cancellable
// context when the service starts and is expected to block until cancelled.
func New(logger *zap.Logger, runFn func(ctx context.Context)) *Agent {
	return &Agent{
		logger: logger,
		runFn:  runFn,
	}
}

// IsWindowsService checks if the process is running as a Windows service.
func IsWindowsService() bool {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return isService
}

// Run starts the Windows service control loop.
func (a *Agent) Run() error {
	return svc.Run(serviceName, a)
}

// Execute implements svc.Handler: start, running, stop/shutdown.
func (a *Agent) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (ssec bool, errno uint32) {
	changes <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.runFn(ctx)

	changes <- svc.Status{
		State:   svc.Running,
		Accepts: svc.AcceptStop | svc.AcceptShutdown,
	}
	a.logger.Info("Windows service started")

	for {
		c := <-r
		switch c.Cmd {
		case svc.Interrogate:
			changes <- c.CurrentStatus
		case svc.Stop, svc.Shutdown:
			a.logger.Info("Windows service stopping")
			changes <- svc.Status{State: svc.StopPending}
			cancel()
			// Let an in-flight delivery attempt conclude
			time.Sleep(2 * time.Second)
			return false, 0
		default:
			a.logger.Warn("Unexpected service control request",
				zap.Uint32("cmd", uint32(c.Cmd)))
		}
	}
}
