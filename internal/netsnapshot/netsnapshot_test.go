package netsnapshot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb)
}

func TestStore_GetMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, found, err := s.Get(context.Background(), "edge-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_PutThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	result := json.RawMessage(`{"interface":"eth0","ip":"192.168.1.5"}`)

	require.NoError(t, s.Put(ctx, "edge-1", result))

	got, found, err := s.Get(ctx, "edge-1")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, string(result), string(got))
}

func TestStore_DistinctSerialsDoNotInterfere(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "edge-1", json.RawMessage(`{"ip":"10.0.0.1"}`)))

	_, found, err := s.Get(ctx, "edge-2")
	require.NoError(t, err)
	require.False(t, found)
}
