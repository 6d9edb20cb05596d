package collector

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// stubSource is a configurable test double for a metric source.
type stubSource struct {
	name      string
	data      interface{}
	err       error
	available bool
	panics    bool
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Collect(context.Context) (interface{}, error) {
	if s.panics {
		panic("gopsutil edge case")
	}
	return s.data, s.err
}
func (s *stubSource) IsAvailable() bool { return s.available }

func TestRegister_SkipsUnavailableSources(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(&stubSource{name: "cpu", available: true})
	r.Register(&stubSource{name: "events", available: false})
	r.Register(&stubSource{name: "memory", available: true})

	sources := r.Sources()
	if len(sources) != 2 {
		t.Fatalf("len(Sources()) = %d, want 2", len(sources))
	}
	for _, s := range sources {
		if s.Name() == "events" {
			t.Error("unavailable source was registered")
		}
	}
}

func TestCollectAll_FailedSourceOmittedFromResults(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(&stubSource{name: "cpu", data: 12.5, available: true})
	r.Register(&stubSource{name: "memory", err: errors.New("permission denied"), available: true})

	results := r.CollectAll(context.Background())

	if got, ok := results["cpu"]; !ok || got != 12.5 {
		t.Errorf("results[cpu] = %v (ok=%v), want 12.5", got, ok)
	}
	if _, ok := results["memory"]; ok {
		t.Error("failed source must not appear in results")
	}
}

func TestCollectAll_ContainsPanickingSource(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(&stubSource{name: "processes", available: true, panics: true})
	r.Register(&stubSource{name: "cpu", data: 42.0, available: true})

	results := r.CollectAll(context.Background())

	if _, ok := results["processes"]; ok {
		t.Error("panicking source must not appear in results")
	}
	if got, ok := results["cpu"]; !ok || got != 42.0 {
		t.Errorf("results[cpu] = %v (ok=%v), want 42.0 despite sibling panic", got, ok)
	}
}
