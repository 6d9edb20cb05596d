//go:build !windows

// Package service provides a stub for non-Windows platforms, where the agent
// runs as a plain foreground process under the init system.
package service

import (
	"context"

	"go.uber.org/zap"
)

// Agent is a no-op service wrapper for non-Windows platforms.
type Agent struct {
	logger *zap.Logger
	runFn  func(ctx context.Context)
}

// New creates a stub service wrapper for non-Windows platforms.
func New(logger *zap.Logger, runFn func(ctx context.Context)) *Agent {
	return &Agent{
		logger: logger,
		runFn:  runFn,
	}
}

// IsWindowsService always returns false on non-Windows platforms.
func IsWindowsService() bool {
	return false
}

// Run executes the agent directly (no service wrapper on non-Windows).
func (a *Agent) Run() error {
	a.runFn(context.Background())
	return nil
}
