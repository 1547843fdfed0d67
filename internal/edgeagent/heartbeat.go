package edgeagent

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"
)

// heartbeatOffset is the fixed +08:00 offset spec.md §4.2 requires for
// heartbeat_at, independent of the host machine's local timezone.
var heartbeatOffset = time.FixedZone("", 8*60*60)

// heartbeatPayload is published to <edge_id>/status on every tick.
// Sequence is monotonically increasing per session (spec.md §5,
// §8 property 7), starting from 0 at connect.
type heartbeatPayload struct {
	EdgeID      string `json:"edge_id"`
	Version     string `json:"version"`
	HeartbeatAt string `json:"heartbeat_at"`
	Status      string `json:"status"`
	Sequence    uint64 `json:"sequence"`
	IP          string `json:"ip"`
}

// heartbeatLoop publishes to <edge_id>/status every cfg.HeartbeatInterval
// until ctx is cancelled. Publishing is independent of the command
// dispatcher; spec.md §5 allows /status and /data publishes to interleave
// as long as /status sequence numbers stay monotonic, which a single
// atomic counter guarantees regardless of goroutine scheduling.
func (a *Agent) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.publishHeartbeat(ctx)
		}
	}
}

func (a *Agent) publishHeartbeat(ctx context.Context) {
	payload := a.buildHeartbeatPayload(ctx)
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("edgeagent: marshal heartbeat: %v", err)
		return
	}
	if err := a.publish(ctx, a.statusTopic(), data); err != nil {
		log.Printf("edgeagent: publish heartbeat: %v", err)
	}
}

// buildHeartbeatPayload assembles one status-topic payload per spec.md
// §4.2, advancing the session's monotonic sequence counter.
func (a *Agent) buildHeartbeatPayload(ctx context.Context) heartbeatPayload {
	seq := atomic.AddUint64(&a.heartbeatSeq, 1) - 1
	return heartbeatPayload{
		EdgeID:      a.cfg.EdgeID,
		Version:     a.cfg.EdgeVersion,
		HeartbeatAt: time.Now().In(heartbeatOffset).Format("2006-01-02T15:04:05.000-07:00"),
		Status:      "online",
		Sequence:    seq,
		IP:          a.bestKnownIP(ctx),
	}
}
