// Registry fan-out: all registered sources run concurrently per cycle.
// A failed source is logged and its key left out of the result map; the
// assembler treats a missing key as that domain being unavailable, so one
// broken domain can never abort a snapshot.
package collector

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Registry manages all registered sources and orchestrates concurrent collection.
type Registry struct {
	sources []Source
	logger  *zap.Logger
}

// NewRegistry creates a new source registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sources: make([]Source, 0),
		logger:  logger,
	}
}

// Register adds a source if it's available on the current platform.
// Unavailable sources are logged and skipped.
func (r *Registry) Register(s Source) {
	if s.IsAvailable() {
		r.sources = append(r.sources, s)
		r.logger.Info("Registered source", zap.String("name", s.Name()))
	} else {
		r.logger.Warn("Source not available, skipping", zap.String("name", s.Name()))
	}
}

// CollectAll runs all registered sources concurrently and returns a map of
// source name -> result data. Failed sources are logged but do not prevent
// other sources from completing; their keys are absent from the result.
func (r *Registry) CollectAll(ctx context.Context) map[string]interface{} {
	results := make(map[string]interface{})
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, s := range r.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			// A panicking source degrades to "unavailable this cycle"
			// like any other failure; it must never kill the process.
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("Source panicked",
						zap.String("source", src.Name()),
						zap.Any("panic", rec))
				}
			}()
			data, err := src.Collect(ctx)
			if err != nil {
				r.logger.Warn("Source unavailable this cycle",
					zap.String("source", src.Name()),
					zap.Error(err))
				return
			}
			mu.Lock()
			results[src.Name()] = data
			mu.Unlock()
		}(s)
	}

	wg.Wait()
	return results
}

// Sources returns a copy of all registered sources.
func (r *Registry) Sources() []Source {
	result := make([]Source, len(r.sources))
	copy(result, r.sources)
	return result
}
