// Package netsnapshot caches the last network-config result an edge
// self-reported over MQTT, so an operator's browser can poll it without
// waiting on a live round-trip through the command plane. It is a read
// path only; the edge's own GetNetworkConfig reply is still the source of
// truth.
package netsnapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ttl bounds how stale a cached snapshot can be before it is treated as
// gone; an edge that stops reporting should eventually disappear from the
// endpoint rather than serve an indefinitely old reading.
const ttl = 24 * time.Hour

// Store persists the most recent network-config snapshot per edge serial
// number in Redis, keyed by the same serial_number the HTTP and MQTT
// surfaces already use.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(serial string) string {
	return fmt.Sprintf("netsnapshot:%s", serial)
}

// Put stores result (already JSON, the exact shape NetworkConfigHandler's
// reply carries) as the latest snapshot for serial.
func (s *Store) Put(ctx context.Context, serial string, result json.RawMessage) error {
	return s.client.Set(ctx, key(serial), []byte(result), ttl).Err()
}

// Get returns the latest snapshot for serial, or ok=false if none has been
// recorded (or it has expired).
func (s *Store) Get(ctx context.Context, serial string) (json.RawMessage, bool, error) {
	val, err := s.client.Get(ctx, key(serial)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(val), true, nil
}
