package httpapi

import (
	"errors"
	"net/http"

	"github.com/red-safe/platform/internal/authsvc"
	"github.com/red-safe/platform/internal/data"
)

type iosSignupRequest struct {
	UserID      string `json:"user_id"`
	APNsToken   string `json:"apns_token"`
	IOSDeviceID string `json:"ios_device_id"`
	DeviceName  string `json:"device_name"`
}

// handleIOSSignup is POST /ios/signup.
func (s *Server) handleIOSSignup(r *http.Request) Result {
	var req iosSignupRequest
	if err := decodeBody(r, &req); err != nil {
		return fail(400, ErrInvalidJSON)
	}
	if req.UserID == "" || req.APNsToken == "" {
		return fail(400, ErrMissingUserIDOrAPNsToken)
	}
	if !authsvc.APNsTokenRe.MatchString(req.APNsToken) {
		return fail(400, ErrInvalidAPNsToken)
	}

	deviceID, err := s.deps.IOSDevices.RegisterIOSDevice(r.Context(), req.IOSDeviceID, req.UserID, req.APNsToken, req.DeviceName)
	if err != nil {
		s.serverLog.errorf("ios/signup: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{"ios_device_id": deviceID})
}

type serialAndTokenRequest struct {
	SerialNumber string `json:"serial_number"`
}

// handleIOSBind is POST /ios/bind.
func (s *Server) handleIOSBind(r *http.Request) Result {
	userID, serial, errRes, valid := s.authenticatedSerial(r)
	if !valid {
		return errRes
	}

	if err := s.deps.Bindings.Bind(r.Context(), serial, userID); err != nil {
		if errors.Is(err, data.ErrBindingAlreadyExists) {
			return fail(409, ErrBindingAlreadyExists)
		}
		s.serverLog.errorf("ios/bind: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{"serial_number": serial})
}

// handleIOSUnbind is POST /ios/unbind.
func (s *Server) handleIOSUnbind(r *http.Request) Result {
	userID, serial, errRes, valid := s.authenticatedSerial(r)
	if !valid {
		return errRes
	}

	if _, err := s.deps.Bindings.Unbind(r.Context(), serial, userID); err != nil {
		s.serverLog.errorf("ios/unbind: %v", err)
		return fail(500, ErrInternal)
	}

	return ok(map[string]any{"serial_number": serial})
}

// authenticatedSerial is the shared /ios/bind and /ios/unbind prologue:
// decode the body's serial_number, validate it, and decode the Bearer
// access token to a user id. valid is false when the caller should return
// errRes immediately instead of proceeding.
func (s *Server) authenticatedSerial(r *http.Request) (userID, serial string, errRes Result, valid bool) {
	var req serialAndTokenRequest
	if err := decodeBody(r, &req); err != nil {
		return "", "", fail(400, ErrInvalidJSON), false
	}
	if req.SerialNumber == "" {
		return "", "", fail(400, ErrMissingSerialNumber), false
	}
	if !authsvc.SerialNumberRe.MatchString(req.SerialNumber) {
		return "", "", fail(400, ErrInvalidSerialNumber), false
	}

	accessToken := bearerToken(r)
	if accessToken == "" {
		return "", "", fail(400, ErrMissingAccessToken), false
	}

	uid, status := s.deps.Access.DecodeAccessToken(accessToken)
	if res, isErr := decodeStatusToResult(status); isErr {
		return "", "", res, false
	}

	return uid, req.SerialNumber, Result{}, true
}
