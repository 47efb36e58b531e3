// Package common contains shared constants and sentinel errors used across
// jobhub client components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the session token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName tags every outbound request with a unique id so client
// and server logs can be correlated.
const RequestIDHeaderName = "X-Request-ID"

// Persisted storage keys. The alias keys predate the auth_* naming and are
// rewritten together with their primary keys on every change.
const (
	KeyAuthUser                 = "auth_user"
	KeyAuthToken                = "auth_token"
	KeyLegacyUser               = "user"
	KeyLegacyToken              = "token"
	KeyPendingVerification      = "pending_verification"
	KeyPendingVerificationEmail = "pending_verification_email"
	KeyDeviceSecret             = "device_secret"
)

// OTPCodeLength is the fixed number of digits in a one-time passcode.
const OTPCodeLength = 6

// MinPasswordLength is the shortest password the sign-up form accepts.
const MinPasswordLength = 6
