package fcm

import "context"

// TokenSource supplies a currently valid OAuth2 access token. The client
// borrows one token per request and never retains it.
//
// Implementations own the token lifecycle (refresh, caching) and must be
// safe for concurrent use; oauth.TokenManager is the stock implementation.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
