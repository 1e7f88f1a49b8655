// Package replication implements the best-effort identity replication channel
// from the auth service to the users service. One attempt per identity, no
// retry, no queue: a failed push is logged, counted, and dropped, leaving the
// replica stale until a corrective event.
package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mercadito/marketplace-system/internal/api/metrics"
	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	// SyncURL is the full replication endpoint, e.g. "http://127.0.0.1:8001/sync_user".
	SyncURL string
	Timeout time.Duration
}

// Pusher performs the one-shot POST /sync_user push.
type Pusher struct {
	syncURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewPusher(cfg Config, log zerolog.Logger) *Pusher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Pusher{
		syncURL: cfg.SyncURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Push sends the public identity to the users service. The returned error is
// for logging only; callers must not fail registration on it.
func (p *Pusher) Push(ctx context.Context, identity *domain.PublicIdentity) error {
	body, err := json.Marshal(identity)
	if err != nil {
		metrics.ReplicationPushesTotal.WithLabelValues("dropped").Inc()
		return fmt.Errorf("replication push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.syncURL, bytes.NewReader(body))
	if err != nil {
		metrics.ReplicationPushesTotal.WithLabelValues("dropped").Inc()
		return fmt.Errorf("replication push: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		metrics.ReplicationPushesTotal.WithLabelValues("dropped").Inc()
		return fmt.Errorf("replication push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ReplicationPushesTotal.WithLabelValues("dropped").Inc()
		return fmt.Errorf("replication push: users service returned %d", resp.StatusCode)
	}

	metrics.ReplicationPushesTotal.WithLabelValues("delivered").Inc()
	p.log.Debug().Int64("id", identity.ID).Str("email", identity.Email).Msg("identity replicated")
	return nil
}
