package client

import "github.com/dmitrijs2005/streamstock/internal/client/token"

type PreflightKind int

const (
	// PreflightOK: attach the token.
	PreflightOK PreflightKind = iota
	// PreflightAnonymous: nothing stored, send without credentials.
	PreflightAnonymous
	// PreflightExpired: a token is stored but is too close to expiry to send.
	PreflightExpired
	// PreflightRoleMismatch: the stored token belongs to another role; the
	// request must not be sent.
	PreflightRoleMismatch
)

func (k PreflightKind) String() string {
	switch k {
	case PreflightOK:
		return "ok"
	case PreflightAnonymous:
		return "anonymous"
	case PreflightExpired:
		return "expired"
	case PreflightRoleMismatch:
		return "role mismatch"
	}
	return "unknown"
}

// Preflight is the decision taken before a request is sent. Token is set only
// for PreflightOK.
type Preflight struct {
	Kind  PreflightKind
	Token string
	Role  string
}

// Check classifies snap for area. The role check runs before the expiry
// check so a foreign token ends the session even when it is stale.
func Check(snap token.Snapshot, area Area) Preflight {
	if snap.Token == "" {
		return Preflight{Kind: PreflightAnonymous}
	}
	if area.Role != "" && snap.Role != area.Role {
		return Preflight{Kind: PreflightRoleMismatch, Role: snap.Role}
	}
	if snap.Expired {
		return Preflight{Kind: PreflightExpired, Role: snap.Role}
	}
	return Preflight{Kind: PreflightOK, Token: snap.Token, Role: snap.Role}
}
