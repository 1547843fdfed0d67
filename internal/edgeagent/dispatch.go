package edgeagent

import (
	"context"
	"encoding/json"
	"strconv"
)

// Command is the parsed payload of a message received on <edge_id>/cmd.
// Code is normalised to its string form here: the wire may send either a
// JSON string or a JSON number, per spec.md §4.2.
type Command struct {
	TraceID string
	Code    string
	// Payload carries any command-specific fields beyond trace_id/code
	// (e.g. set_ipc_info's ip/mac/name), re-marshaled verbatim from the
	// original message so handlers can decode their own shape.
	Payload json.RawMessage
}

// rawCommand mirrors the wire shape before Code is normalised; Code is kept
// as raw JSON so both a quoted and a bare code decode in one Unmarshal.
type rawCommand struct {
	TraceID string          `json:"trace_id"`
	Code    json.RawMessage `json:"code"`
}

// ParseCommand decodes one <edge_id>/cmd payload. A bare JSON number code
// keeps its literal text (102 -> "102"); a JSON string code is unquoted,
// and a non-numeric string code is preserved as-is.
func ParseCommand(payload []byte) (Command, error) {
	var raw rawCommand
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Command{}, err
	}
	code := string(raw.Code)
	var quoted string
	if json.Unmarshal(raw.Code, &quoted) == nil {
		code = quoted
	}
	return Command{TraceID: raw.TraceID, Code: code, Payload: json.RawMessage(payload)}, nil
}

// Reply is the message published back to <edge_id>/data for every
// received command. Code is always the string form of the request's code,
// per spec.md §4.2 ("all replies preserve the incoming trace_id and code
// verbatim").
type Reply struct {
	TraceID string `json:"trace_id"`
	Code    string `json:"code"`
	Status  string `json:"status"`
	Result  any    `json:"result"`
}

// statusOK and statusError are the only two values the wire accepts for
// Reply.Status, per spec.md §4.2.
const (
	statusOK    = "ok"
	statusError = "error"
)

// Handler runs one command's business logic and returns the reply's
// Result field plus its Status ("ok" or "error"). Handlers decide their
// own status: a scan failure still replies "ok" with an empty array where
// spec.md §4.2 says so, and only the unsupported-command path and
// unexpected internal failures use "error".
type Handler func(ctx context.Context, a *Agent, cmd Command) (result any, status string)

// dispatchTable maps a command's normalised code to its Handler.
// spec.md §9's "Dynamic command table" redesign: a plain map registered
// once at startup, handlers independent of each other, with
// UnsupportedCommandHandler as the default for anything not listed here.
func dispatchTable() map[string]Handler {
	return map[string]Handler{
		"100": HeartbeatAckHandler,
		"101": ScanHandler,
		"102": NetworkConfigHandler,
		"103": SetIPCInfoHandler,
		"104": DelIPCInfoHandler,
	}
}

// lookupHandler resolves code to its Handler, or UnsupportedCommandHandler
// if code is not registered. Codes arriving as "100.0"-shaped floats are
// normalised to their integer string form first.
func lookupHandler(table map[string]Handler, code string) Handler {
	if h, ok := table[code]; ok {
		return h
	}
	if n, err := strconv.ParseFloat(code, 64); err == nil {
		if h, ok := table[strconv.FormatInt(int64(n), 10)]; ok {
			return h
		}
	}
	return UnsupportedCommandHandler
}

// UnsupportedCommandHandler is the dispatch table's default: any code not
// in dispatchTable() replies with an error status and a fixed message,
// never interrupting the connection.
func UnsupportedCommandHandler(ctx context.Context, a *Agent, cmd Command) (any, string) {
	return map[string]any{"error_message": "unsupported command"}, statusError
}

// HeartbeatAckHandler handles code 100: reset the command-silence
// watchdog and acknowledge.
func HeartbeatAckHandler(ctx context.Context, a *Agent, cmd Command) (any, string) {
	a.watchdog.reset()
	return map[string]any{"message": "heartbeat_ack"}, statusOK
}
