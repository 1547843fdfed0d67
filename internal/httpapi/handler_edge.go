package httpapi

import (
	"errors"
	"net/http"

	"github.com/red-safe/platform/internal/authsvc"
	"github.com/red-safe/platform/internal/data"
)

type edgeSignupRequest struct {
	SerialNumber string `json:"serial_number"`
	Version      string `json:"version"`
}

// handleEdgeSignup is POST /edge/signup.
func (s *Server) handleEdgeSignup(r *http.Request) Result {
	var req edgeSignupRequest
	if err := decodeBody(r, &req); err != nil {
		return fail(400, ErrInvalidJSON)
	}
	if req.SerialNumber == "" || req.Version == "" {
		return fail(400, ErrMissingSerialOrVersion)
	}
	if !authsvc.SerialNumberRe.MatchString(req.SerialNumber) {
		return fail(400, ErrInvalidSerialNumber)
	}

	if err := s.deps.Edges.RegisterEdge(r.Context(), req.SerialNumber, req.Version); err != nil {
		if errors.Is(err, data.ErrEdgeAlreadyRegistered) {
			return fail(409, ErrEdgeAlreadyRegistered)
		}
		s.serverLog.errorf("edge/signup: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{"serial_number": req.SerialNumber})
}
