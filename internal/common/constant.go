// Package common contains shared constants and sentinel errors used across
// streamstock components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName is attached to every outbound API request.
	RequestIDHeaderName = "X-Request-ID"
)
