package httpapi

// Wire-stable error codes, authoritative per spec.md §4.5. Never
// renumbered: clients (iOS app, edge agent) hard-code these integers.
const (
	ErrSuccess = 0
	ErrUnknownEndpoint = 99

	ErrInvalidJSON             = 100
	ErrInvalidSerialNumber     = 101
	ErrInvalidAPNsToken        = 102
	ErrInvalidEmail            = 103
	ErrInvalidUserName         = 104
	ErrInvalidPassword         = 105

	ErrEmailOrPassword = 201

	ErrEdgeAlreadyRegistered = 301
	ErrEmailAlreadyExists    = 302
	ErrBindingAlreadyExists  = 303

	ErrMissingSerialOrVersion     = 401
	ErrMissingEmailUserNamePwd    = 402
	ErrMissingEmailOrPassword     = 403
	ErrMissingUserIDOrAPNsToken   = 404
	ErrMissingSerialNumber        = 405
	ErrMissingRefreshToken        = 406
	ErrMissingAccessToken         = 407

	ErrInternal              = 500
	ErrRefreshTokenExpired   = 501
	ErrRefreshTokenInvalid   = 502
	ErrAccessTokenExpired    = 503
	ErrAccessTokenInvalid    = 504
	ErrJWTInvalidSignature   = 505
	ErrJWTInvalidTokenGiven  = 506
)
