package edgeagent

import (
	"context"
	"encoding/json"

	"github.com/red-safe/platform/internal/ipcstore"
)

// ipcInfoRequest is the payload shape for codes 103 (set) and 104 (del);
// del only needs ip, the others are ignored if present.
type ipcInfoRequest struct {
	IP   string `json:"ip"`
	MAC  string `json:"mac"`
	Name string `json:"name"`
}

func decodeIPCInfoRequest(cmd Command, raw json.RawMessage) (ipcInfoRequest, error) {
	var req ipcInfoRequest
	if len(raw) == 0 {
		return req, nil
	}
	err := json.Unmarshal(raw, &req)
	return req, err
}

// SetIPCInfoHandler handles code 103: persist an operator-pinned camera
// entry to the edge's local store, per §10's supplemented set_ipc_info/
// del_ipc_info commands.
func SetIPCInfoHandler(ctx context.Context, a *Agent, cmd Command) (any, string) {
	if a.ipcStore == nil {
		return map[string]any{"error_message": "ipc store unavailable"}, statusError
	}
	req, err := decodeIPCInfoRequest(cmd, cmd.Payload)
	if err != nil || req.IP == "" {
		return map[string]any{"error_message": "invalid ipc info payload"}, statusError
	}
	if err := a.ipcStore.Set(ctx, ipcstore.Info{IP: req.IP, MAC: req.MAC, Name: req.Name}); err != nil {
		return map[string]any{"error_message": err.Error()}, statusError
	}
	return map[string]any{"ip": req.IP}, statusOK
}

// DelIPCInfoHandler handles code 104: remove a previously pinned entry.
// Deleting a missing entry still replies "ok", matching the commands'
// idempotent contract.
func DelIPCInfoHandler(ctx context.Context, a *Agent, cmd Command) (any, string) {
	if a.ipcStore == nil {
		return map[string]any{"error_message": "ipc store unavailable"}, statusError
	}
	req, err := decodeIPCInfoRequest(cmd, cmd.Payload)
	if err != nil || req.IP == "" {
		return map[string]any{"error_message": "invalid ipc info payload"}, statusError
	}
	if err := a.ipcStore.Delete(ctx, req.IP); err != nil {
		return map[string]any{"error_message": err.Error()}, statusError
	}
	return map[string]any{"ip": req.IP}, statusOK
}
