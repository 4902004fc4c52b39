// Package token keeps the access token of one client area and answers
// questions about it: is it still usable, which role does it carry.
//
// # Storage layout
//
// Two string values are kept in a credentials.Repository:
//
//	<area>_accessToken           the raw JWT
//	<area>_accessTokenExpiresAt  cached exp claim in milliseconds (optional)
//
// The cached expiry always mirrors the exp claim of the stored token; when
// it is absent the token is decoded on demand.
//
// # Malformed tokens
//
// DecodeJWT is the only place where malformed input is absorbed: it returns
// nil instead of an error, and every caller degrades to "expired" / "no role".
// Signatures are never verified here; the server stays the authority and a
// 401 response is the real expiry signal.
package token
