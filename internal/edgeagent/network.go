package edgeagent

import (
	"context"
	"log"
	"time"

	edgev1 "github.com/red-safe/platform/gen/go/edge/v1"
)

// ipRefreshInterval bounds how often bestKnownIP re-queries the local
// IPtool gRPC service, per spec.md §4.2's heartbeat "ip (best-known)" field.
const ipRefreshInterval = 10 * time.Minute

// bestKnownIP returns the edge's own IP for the heartbeat payload, refreshed
// from the IPtool gRPC service (C3) at most every ipRefreshInterval or
// whenever the cache is still empty. A fetch failure keeps serving the
// last-known value (possibly empty) rather than blocking the heartbeat tick.
func (a *Agent) bestKnownIP(ctx context.Context) string {
	a.ipMu.Lock()
	stale := a.cachedIP == "" || time.Since(a.ipFetchedAt) >= ipRefreshInterval
	cached := a.cachedIP
	a.ipMu.Unlock()
	if !stale {
		return cached
	}

	cfg, err := a.networkClient.GetNetworkConfig(ctx, &edgev1.GetNetworkConfigRequest{InterfaceName: a.cfg.NetworkInterface})
	if err != nil {
		log.Printf("edgeagent: refresh heartbeat ip: %v", err)
		return cached
	}

	a.ipMu.Lock()
	a.cachedIP = cfg.IP
	a.ipFetchedAt = time.Now()
	a.ipMu.Unlock()
	return cfg.IP
}

// NetworkConfigHandler handles code 102: fetch the effective network
// config for the configured interface over the local C3 gRPC façade
// (NetworkService.GetNetworkConfig), per spec.md §4.2/§4.3.
func NetworkConfigHandler(ctx context.Context, a *Agent, cmd Command) (any, string) {
	cfg, err := a.networkClient.GetNetworkConfig(ctx, &edgev1.GetNetworkConfigRequest{InterfaceName: a.cfg.NetworkInterface})
	if err != nil {
		return map[string]any{"error_message": err.Error()}, statusError
	}
	return map[string]any{
		"interface": cfg.InterfaceName,
		"ip":        cfg.IP,
		"mac":       cfg.MAC,
		"gateway":   cfg.Gateway,
		"subnet":    cfg.SubnetMask,
		"dns":       cfg.DNS,
		"mode":      networkMode(cfg),
	}, statusOK
}

// networkMode reports "static" vs "dhcp". The gRPC façade never tells us
// which the interface is actually running under, so this mirrors how the
// effective config was resolved: a gateway present but no local lease
// marker is beyond what NetworkConfig carries, so this always reports the
// fixed configuration mode the edge agent was deployed with — "static",
// since RED-Safe edges are always given a fixed IP per spec.md §3's
// EdgeDevice/NetworkConfig entities.
func networkMode(cfg *edgev1.NetworkConfig) string {
	return "static"
}
