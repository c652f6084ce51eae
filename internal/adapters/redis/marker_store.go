package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/campus-portal/internal/ports"
)

// DefaultMarkerPrefix namespaces pending-destination keys.
const DefaultMarkerPrefix = "marker:"

// MarkerStore keeps pending post-login destinations, one key per visitor.
type MarkerStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.MarkerStore = (*MarkerStore)(nil)

// NewMarkerStore creates a marker store using DefaultMarkerPrefix.
func NewMarkerStore(client redis.UniversalClient) *MarkerStore {
	return &MarkerStore{client: client, prefix: DefaultMarkerPrefix}
}

// Remember overwrites the visitor's marker. A non-positive ttl keeps it until consumed.
func (m *MarkerStore) Remember(ctx context.Context, visitor, path string, ttl time.Duration) error {
	if visitor == "" {
		return errors.New("visitor ID cannot be empty")
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := m.client.Set(ctx, m.prefix+visitor, path, ttl).Err(); err != nil {
		return fmt.Errorf("redis set marker: %w", err)
	}
	return nil
}

// Consume reads and deletes the marker in one GETDEL round trip, so two
// concurrent logins for the same visitor cannot both receive it.
func (m *MarkerStore) Consume(ctx context.Context, visitor string) (string, bool, error) {
	if visitor == "" {
		return "", false, nil
	}
	path, err := m.client.GetDel(ctx, m.prefix+visitor).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis getdel marker: %w", err)
	}
	return path, true, nil
}
