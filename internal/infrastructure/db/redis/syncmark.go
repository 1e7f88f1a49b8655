package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const markTTL = time.Hour

// SyncMarker short-circuits repeated replication pushes for the same email
// without a replica-store round trip.
// Key format: sync:<email>
type SyncMarker struct {
	client *redis.Client
}

// NewSyncMarker creates a SyncMarker wrapping the given Redis client.
func NewSyncMarker(client *redis.Client) *SyncMarker {
	return &SyncMarker{client: client}
}

// IsSynced reports whether a push for this email was already acknowledged.
func (m *SyncMarker) IsSynced(ctx context.Context, email string) (bool, error) {
	n, err := m.client.Exists(ctx, m.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("sync marker check: %w", err)
	}
	return n > 0, nil
}

// Mark records that a push for this email was processed (expires after markTTL).
func (m *SyncMarker) Mark(ctx context.Context, email string) error {
	return m.client.Set(ctx, m.key(email), "1", markTTL).Err()
}

func (m *SyncMarker) key(email string) string {
	return "sync:" + email
}
