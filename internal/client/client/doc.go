// Package client talks to the marketplace REST API on behalf of one area
// (customer, admin or supplier).
//
// # Overview
//
// Transport is an http.RoundTripper that reads the area's token.Store before
// every request and attaches "Authorization: Bearer <token>" when the token
// is present, unexpired and of the expected role. When the server answers 401
// it asks the Refresher for a new token, so any number of concurrent failures
// share a single POST <base>/auth/refresh, and replays each request once.
// Failures that end the session clear the store and notify a session.Sink.
//
// Client wraps the Transport with JSON encoding, request IDs and optional
// rate limiting.
//
// # Error Handling
//
// Non-2xx responses become *StatusError, which matches ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrBadRequest and ErrUnavailable via errors.Is.
// Network failures wrap ErrUnavailable. A token of the wrong role fails the
// call with ErrRoleMismatch before anything is sent.
package client
