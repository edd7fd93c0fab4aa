package auth

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource extracts a candidate token from a request. An empty string
// means the source has nothing to offer.
type TokenSource struct {
	Name    string
	Extract func(r *http.Request) string
}

// HeaderSource reads a Bearer token from the Authorization header.
func HeaderSource() TokenSource {
	return TokenSource{
		Name: "header",
		Extract: func(r *http.Request) string {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				return ""
			}
			var token string
			fmt.Sscanf(authHeader, "Bearer %s", &token)
			return token
		},
	}
}

// QuerySource reads the id_token URL parameter, the sign-in round-trip entry
// point.
func QuerySource() TokenSource {
	return TokenSource{
		Name: "query",
		Extract: func(r *http.Request) string {
			return r.URL.Query().Get("id_token")
		},
	}
}

// CookieSource reads the persisted gh_id_token cookie.
func CookieSource() TokenSource {
	return TokenSource{
		Name: "cookie",
		Extract: func(r *http.Request) string {
			c, err := r.Cookie(TokenCookieName)
			if err != nil {
				return ""
			}
			return c.Value
		},
	}
}

// DefaultChain is the restoration order: live bearer header, then URL token,
// then persisted cookie.
func DefaultChain() []TokenSource {
	return []TokenSource{HeaderSource(), QuerySource(), CookieSource()}
}

// Resolve walks the source chain and verifies the first non-empty token; the
// first success wins. It returns the identity and the name of the source that
// produced it. When every source is empty or fails, it returns ErrInvalidToken
// (wrapped with the last failure, if any).
func Resolve(ctx context.Context, v Verifier, r *http.Request, sources []TokenSource) (Identity, string, error) {
	var lastErr error
	for _, src := range sources {
		token := src.Extract(r)
		if token == "" {
			continue
		}
		ident, err := v.Verify(ctx, token)
		if err != nil {
			lastErr = err
			continue
		}
		return ident, src.Name, nil
	}

	if lastErr != nil {
		return Identity{}, "", lastErr
	}
	return Identity{}, "", ErrInvalidToken
}
