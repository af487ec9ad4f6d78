package service

import "errors"

// Sentinel errors returned by services. Callers check them with errors.Is and
// the API layer maps them to status codes.
var (
	// ErrInvalidCredentials is returned by Authenticate for an unknown email
	// and for a wrong password alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
