package edgeagent

import (
	"context"
	"encoding/json"
)

// ScanHandler handles code 101: run C1's discovery scan off the
// dispatcher goroutine is the caller's job (see Agent.onPublishReceived);
// this function just awaits the result and serialises it into the
// reply's result field. A scan error still replies "ok" with an empty
// array, per spec.md §4.2 ("reply with result = parsed JSON array (or
// empty array on parse failure)") — the only failure mode this process
// can itself produce is a scan timeout/socket error, treated the same as
// an empty result.
func ScanHandler(ctx context.Context, a *Agent, cmd Command) (any, string) {
	devices, err := a.scanner.Scan(ctx, a.cfg.ScanTimeout)
	if err != nil || len(devices) == 0 {
		return json.RawMessage("[]"), statusOK
	}
	return devices, statusOK
}
