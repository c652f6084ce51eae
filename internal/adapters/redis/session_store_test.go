package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	"github.com/target/campus-portal/internal/ports"
	"github.com/target/campus-portal/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func liveSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:            id,
		UserID:        "21CS1042",
		DisplayName:   "Student 21CS1042",
		Email:         "21cs1042@campus.example.edu",
		Role:          domainauth.RoleStudent,
		Authenticated: true,
		ExpiresAt:     time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := liveSession("s-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.True(t, got.Authenticated)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl := client.TTL(ctx, DefaultSessionPrefix+"s-1").Val()
	assert.Greater(t, ttl, 29*time.Minute)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, liveSession("s-del", time.Hour)))
	require.NoError(t, store.Delete(ctx, "s-del"))

	_, err := store.Get(ctx, "s-del")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, liveSession("s-ttl", 100*time.Millisecond)))
	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "s-ttl")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_RejectsInvalid(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	err := store.Save(ctx, liveSession("", time.Hour))
	assert.ErrorContains(t, err, "session ID cannot be empty")

	err = store.Save(ctx, liveSession("old", -time.Hour))
	assert.ErrorContains(t, err, "session is expired")
}

func TestSessionStore_CustomPrefixAndList(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "portal-test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, liveSession("a", time.Hour)))
	require.NoError(t, store.Save(ctx, liveSession("b", time.Hour)))
	assert.Equal(t, int64(1), client.Exists(ctx, "portal-test:a").Val())

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

// shardedClient stands in for a cluster client: commands go to the first
// node, ForEachMaster visits every node.
type shardedClient struct {
	redis.UniversalClient
	nodes []*redis.Client
}

func (c shardedClient) ForEachMaster(ctx context.Context, fn func(context.Context, *redis.Client) error) error {
	for _, n := range c.nodes {
		if err := fn(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func TestSessionStore_ListScansEveryMaster(t *testing.T) {
	first := setupTestRedis(t)
	opts := first.Options()
	second := redis.NewClient(&redis.Options{Addr: opts.Addr, DB: (opts.DB + 1) % 16})
	ctx := context.Background()
	require.NoError(t, second.FlushDB(ctx).Err())
	t.Cleanup(func() {
		_ = second.FlushDB(context.Background()).Err()
		_ = second.Close()
	})

	store := NewSessionStoreWithPrefix(shardedClient{UniversalClient: first, nodes: []*redis.Client{first, second}}, "portal-test:")
	require.NoError(t, store.Save(ctx, liveSession("b", time.Hour)))
	require.NoError(t, second.Set(ctx, "portal-test:a", "{}", time.Hour).Err())
	require.NoError(t, second.Set(ctx, "portal-test:b", "{}", time.Hour).Err())
	require.NoError(t, second.Set(ctx, "other:c", "{}", time.Hour).Err())

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	closed := redis.NewClient(&redis.Options{Addr: opts.Addr})
	require.NoError(t, closed.Close())
	store = NewSessionStoreWithPrefix(shardedClient{UniversalClient: first, nodes: []*redis.Client{first, closed}}, "portal-test:")
	_, err = store.List(ctx)
	assert.ErrorContains(t, err, "scan sessions")
}

func TestMarkerStore_ConsumeIsOneShot(t *testing.T) {
	store := NewMarkerStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "v1", "/staff/leaves", time.Minute))
	require.NoError(t, store.Remember(ctx, "v1", "/staff/enquiries", time.Minute))

	path, ok, err := store.Consume(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/staff/enquiries", path)

	_, ok, err = store.Consume(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkerStore_VisitorsAreIsolated(t *testing.T) {
	store := NewMarkerStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "v1", "/student/results", time.Minute))

	_, ok, err := store.Consume(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, store.Remember(ctx, "", "/x", time.Minute))
}

func TestAvatarStore_RoundTripAndDelete(t *testing.T) {
	client := setupTestRedis(t)
	store := NewAvatarStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, domainauth.RoleStaff, "k")
	assert.ErrorIs(t, err, ports.ErrAvatarNotFound)

	av := avatarFixture(domainauth.RoleStaff, "k")
	require.NoError(t, store.Put(ctx, av))
	assert.Equal(t, int64(1), client.Exists(ctx, "avatar:staff:k").Val())

	got, err := store.Get(ctx, domainauth.RoleStaff, "k")
	require.NoError(t, err)
	assert.Equal(t, av.DataURL, got.DataURL)

	// same user ID under another role is a different avatar
	_, err = store.Get(ctx, domainauth.RoleStudent, "k")
	assert.ErrorIs(t, err, ports.ErrAvatarNotFound)

	require.NoError(t, store.Delete(ctx, domainauth.RoleStaff, "k"))
	_, err = store.Get(ctx, domainauth.RoleStaff, "k")
	assert.ErrorIs(t, err, ports.ErrAvatarNotFound)
}

func avatarFixture(role domainauth.Role, user string) model.Avatar {
	return model.Avatar{
		Role:      role,
		UserID:    user,
		DataURL:   "data:image/png;base64,iVBORw0KGgo=",
		UpdatedAt: time.Now().UTC(),
	}
}
