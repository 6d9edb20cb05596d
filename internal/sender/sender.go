// Package sender implements HTTP delivery of snapshots to the ingest
// endpoint. Delivery is single-attempt with a bounded timeout: a failed
// snapshot is dropped and the retry unit is the next polling cycle.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostbeat/agent/internal/config"
	"github.com/hostbeat/agent/internal/models"
)

// secretHeader carries the shared static secret the ingest endpoint validates.
const secretHeader = "X-Ingest-Secret"

// DeliveryError reports a failed delivery attempt: serialization failure,
// network failure, timeout, or a non-success HTTP status.
type DeliveryError struct {
	Cause string
	Err   error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %s: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("delivery failed: %s", e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Sender posts snapshots to the ingest endpoint.
type Sender struct {
	client    *http.Client
	cfg       *config.Config
	logger    *zap.Logger
	userAgent string
}

// New creates a Sender with the configured endpoint and delivery timeout.
// version is stamped into the User-Agent header.
func New(cfg *config.Config, logger *zap.Logger, version string) *Sender {
	return &Sender{
		client: &http.Client{
			Timeout: cfg.Ingest.Timeout.Duration,
		},
		cfg:       cfg,
		logger:    logger,
		userAgent: "hostbeat-agent/" + version,
	}
}

// Send serializes the snapshot and performs a single authenticated POST.
// Any HTTP status >= 400, network failure, timeout, or serialization failure
// is returned as a *DeliveryError; a nil return means the endpoint accepted
// the snapshot.
func (s *Sender) Send(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return &DeliveryError{Cause: "marshaling snapshot", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Ingest.URL, bytes.NewReader(payload))
	if err != nil {
		return &DeliveryError{Cause: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set(secretHeader, s.cfg.Ingest.Secret)
	// Request id lets the ingest backend trace and deduplicate attempts.
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return &DeliveryError{Cause: "posting snapshot", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &DeliveryError{Cause: fmt.Sprintf("ingest returned status %d", resp.StatusCode)}
	}

	s.logger.Debug("Snapshot accepted",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(payload)))
	return nil
}
