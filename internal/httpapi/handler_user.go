package httpapi

import (
	"errors"
	"net/http"

	"github.com/red-safe/platform/internal/authsvc"
	"github.com/red-safe/platform/internal/data"
	"github.com/red-safe/platform/internal/tokens"
)

type userSignupRequest struct {
	Email    string `json:"email"`
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// handleUserSignup is POST /user/signup.
func (s *Server) handleUserSignup(r *http.Request) Result {
	var req userSignupRequest
	if err := decodeBody(r, &req); err != nil {
		return fail(400, ErrInvalidJSON)
	}
	if req.Email == "" || req.UserName == "" || req.Password == "" {
		return fail(400, ErrMissingEmailUserNamePwd)
	}
	if !authsvc.EmailRe.MatchString(req.Email) {
		return fail(400, ErrInvalidEmail)
	}
	if !authsvc.UserNameRe.MatchString(req.UserName) {
		return fail(400, ErrInvalidUserName)
	}
	if !authsvc.PasswordRe.MatchString(req.Password) {
		return fail(400, ErrInvalidPassword)
	}

	hash, err := authsvc.HashPassword(req.Password)
	if err != nil {
		s.serverLog.errorf("user/signup: hash: %v", err)
		return fail(500, ErrInternal)
	}

	userID, err := s.deps.Users.RegisterUser(r.Context(), req.Email, req.UserName, hash)
	if err != nil {
		if errors.Is(err, data.ErrEmailAlreadyExists) {
			return fail(409, ErrEmailAlreadyExists)
		}
		s.serverLog.errorf("user/signup: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{"user_id": userID, "email": req.Email, "user_name": req.UserName})
}

type userSigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleUserSignin is POST /user/signin.
func (s *Server) handleUserSignin(r *http.Request) Result {
	var req userSigninRequest
	if err := decodeBody(r, &req); err != nil {
		return fail(400, ErrInvalidJSON)
	}
	if req.Email == "" || req.Password == "" {
		return fail(400, ErrMissingEmailOrPassword)
	}

	if s.deps.Lockout != nil {
		locked, err := s.deps.Lockout.Locked(r.Context(), req.Email)
		if err != nil {
			s.serverLog.errorf("user/signin: lockout check: %v", err)
		} else if locked {
			return fail(400, ErrEmailOrPassword)
		}
	}

	user, err := s.deps.Users.FindForSignin(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			s.recordSigninFailure(r, req.Email)
			return fail(400, ErrEmailOrPassword)
		}
		s.serverLog.errorf("user/signin: find: %v", err)
		return fail(500, ErrInternal)
	}

	match, err := authsvc.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		s.serverLog.errorf("user/signin: check: %v", err)
		return fail(500, ErrInternal)
	}
	if !match {
		s.recordSigninFailure(r, req.Email)
		return fail(400, ErrEmailOrPassword)
	}
	if s.deps.Lockout != nil {
		if err := s.deps.Lockout.Clear(r.Context(), req.Email); err != nil {
			s.serverLog.errorf("user/signin: lockout clear: %v", err)
		}
	}

	accessToken, err := s.deps.Access.IssueAccessToken(user.ID)
	if err != nil {
		s.serverLog.errorf("user/signin: issue: %v", err)
		return fail(500, ErrInternal)
	}

	refreshToken, refreshHash, err := tokens.NewRefreshToken()
	if err != nil {
		s.serverLog.errorf("user/signin: refresh: %v", err)
		return fail(500, ErrInternal)
	}
	if err := s.deps.RefreshTokens.Register(r.Context(), refreshHash, user.ID); err != nil {
		s.serverLog.errorf("user/signin: register refresh: %v", err)
		return fail(500, ErrInternal)
	}

	serials, err := s.deps.Bindings.FindUserEdges(r.Context(), user.ID)
	if err != nil {
		s.serverLog.errorf("user/signin: edges: %v", err)
		return fail(500, ErrInternal)
	}

	return okWithCookie(map[string]any{
		"access_token":  accessToken,
		"user_id":       user.ID,
		"user_name":     user.UserName,
		"bound_serials": serials,
	}, refreshToken)
}

// handleUserAll is GET /user/all.
func (s *Server) handleUserAll(r *http.Request) Result {
	accessToken := bearerToken(r)
	if accessToken == "" {
		return fail(400, ErrMissingAccessToken)
	}

	userID, status := s.deps.Access.DecodeAccessToken(accessToken)
	if code, isErr := decodeStatusToResult(status); isErr {
		return code
	}

	user, err := s.deps.Users.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return fail(404, ErrUnknownEndpoint)
		}
		s.serverLog.errorf("user/all: find: %v", err)
		return fail(500, ErrInternal)
	}

	serials, err := s.deps.Bindings.FindUserEdges(r.Context(), userID)
	if err != nil {
		s.serverLog.errorf("user/all: edges: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{
		"user_id":       user.ID,
		"email":         user.Email,
		"user_name":     user.UserName,
		"bound_serials": serials,
	})
}

// recordSigninFailure throttles the email ahead of the password check on
// future attempts, per §10's supplemented login-lockout feature. A lockout
// bookkeeping error is logged but never blocks the already-decided
// Email_or_Password_Error response.
func (s *Server) recordSigninFailure(r *http.Request, email string) {
	if s.deps.Lockout == nil {
		return
	}
	if err := s.deps.Lockout.RecordFailure(r.Context(), email); err != nil {
		s.serverLog.errorf("user/signin: lockout record: %v", err)
	}
}

// decodeStatusToResult translates a tokens.DecodeStatus into the HTTP
// error envelope shared by every Bearer-token-guarded endpoint. ok is
// false when status was tokens.DecodeOK (no error Result to return).
func decodeStatusToResult(status tokens.DecodeStatus) (Result, bool) {
	switch status {
	case tokens.DecodeOK:
		return Result{}, false
	case tokens.DecodeExpired:
		return fail(401, ErrAccessTokenExpired), true
	case tokens.DecodeBadSignature:
		return fail(401, ErrJWTInvalidSignature), true
	case tokens.DecodeMalformed:
		return fail(400, ErrJWTInvalidTokenGiven), true
	case tokens.DecodeInternal:
		return fail(500, ErrInternal), true
	default:
		return fail(401, ErrAccessTokenInvalid), true
	}
}
