// Package httpapi implements the C5 HTTP request pipeline: a table of
// plain handlers returning a tagged Result, translated into the wire
// envelope by the pipeline rather than by the handler itself. This is
// spec.md §9's "Exception-based error returns" redesign: handlers never
// panic or write directly to the response; they return a value and the
// pipeline does the writing.
package httpapi

// Result is what every handler returns. StatusCode is the fixed HTTP
// status for ErrorCode (see codes.go); Body is merged into the response
// envelope alongside error_code. RefreshToken, when non-empty, tells the
// pipeline to also emit the refresh_token cookie.
type Result struct {
	StatusCode   int
	ErrorCode    int
	Body         map[string]any
	RefreshToken string
}

// ok builds a 200 success Result with the given body fields merged in.
func ok(body map[string]any) Result {
	if body == nil {
		body = map[string]any{}
	}
	return Result{StatusCode: 200, ErrorCode: ErrSuccess, Body: body}
}

// okWithCookie is ok, plus a refresh token cookie to set.
func okWithCookie(body map[string]any, refreshToken string) Result {
	r := ok(body)
	r.RefreshToken = refreshToken
	return r
}

// fail builds an error Result with no body fields beyond error_code.
func fail(statusCode, errorCode int) Result {
	return Result{StatusCode: statusCode, ErrorCode: errorCode, Body: map[string]any{}}
}
