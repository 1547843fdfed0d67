package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NetworkSnapshotStore is the read side of internal/netsnapshot, narrowed
// to what this endpoint needs.
type NetworkSnapshotStore interface {
	Get(ctx context.Context, serial string) (json.RawMessage, bool, error)
}

// networkSnapshotRouter mounts the one supplemented GET endpoint this
// package owns outside the §4.5 table, routed with chi rather than the
// stdlib mux it shares its wildcard-path segment with, since this is the
// one place in C5 that wants chi's param extraction instead of
// r.PathValue.
func (s *Server) networkSnapshotRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/edge/{serial}/network", s.handleNetworkSnapshot)
	return r
}

func (s *Server) handleNetworkSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.deps.NetworkSnapshots == nil {
		writeResult(w, fail(404, ErrUnknownEndpoint))
		return
	}
	serial := chi.URLParam(r, "serial")
	snap, found, err := s.deps.NetworkSnapshots.Get(r.Context(), serial)
	if err != nil {
		s.serverLog.errorf("network snapshot lookup for %s: %v", serial, err)
		writeResult(w, fail(500, ErrInternal))
		return
	}
	if !found {
		writeResult(w, fail(404, ErrUnknownEndpoint))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(snap)
}
