package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/red-safe/platform/internal/authsvc"
)

// writeJSON encodes v as the response body. Encoding a plain
// map[string]any built by this package cannot fail, so the error is
// deliberately ignored.
func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody parses r's JSON body into dst. A read or parse failure is the
// caller's cue to return fail(400, ErrInvalidJSON).
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return io.ErrUnexpectedEOF
	}
	return json.Unmarshal(data, dst)
}

// bearerToken extracts the access token from an Authorization header.
// Anything not of the exact form "Bearer <token>" yields an empty string,
// per spec.md §4.5's header-parsing rule.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

// refreshCookieToken extracts the refresh_token value from the Cookie
// header, validating it against the 64-hex pattern. A malformed or absent
// cookie yields an empty string.
func refreshCookieToken(r *http.Request) string {
	const name = "refresh_token="
	header := r.Header.Get("Cookie")
	idx := strings.Index(header, name)
	if idx == -1 {
		return ""
	}
	rest := header[idx+len(name):]
	if semi := strings.IndexByte(rest, ';'); semi != -1 {
		rest = rest[:semi]
	}
	if !authsvc.RefreshTokenRe.MatchString(rest) {
		return ""
	}
	return rest
}
