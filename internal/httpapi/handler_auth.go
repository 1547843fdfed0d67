package httpapi

import (
	"errors"
	"net/http"

	"github.com/red-safe/platform/internal/data"
	"github.com/red-safe/platform/internal/tokens"
)

// handleAuthRefresh is POST /auth/refresh.
func (s *Server) handleAuthRefresh(r *http.Request) Result {
	refreshToken := refreshCookieToken(r)
	if refreshToken == "" {
		return fail(400, ErrMissingRefreshToken)
	}

	userID, err := s.deps.RefreshTokens.RefreshOrRevoke(r.Context(), tokens.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return fail(401, ErrRefreshTokenExpired)
		}
		s.serverLog.errorf("auth/refresh: %v", err)
		return fail(500, ErrInternal)
	}

	accessToken, err := s.deps.Access.IssueAccessToken(userID)
	if err != nil {
		s.serverLog.errorf("auth/refresh: issue: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{"access_token": accessToken})
}

// handleAuthOut is POST /auth/out. Idempotent: revoking an unknown token
// still reports success, per spec.md §4.4.
func (s *Server) handleAuthOut(r *http.Request) Result {
	refreshToken := refreshCookieToken(r)
	if refreshToken == "" {
		return fail(400, ErrMissingRefreshToken)
	}

	if err := s.deps.RefreshTokens.Revoke(r.Context(), tokens.HashRefreshToken(refreshToken)); err != nil {
		s.serverLog.errorf("auth/out: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(nil)
}
