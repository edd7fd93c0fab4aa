package auth

import "net/http"

// TokenCookieName is the persisted-session cookie set after a URL token
// verifies successfully.
const TokenCookieName = "gh_id_token"

// cookie lifetime, seconds
const tokenCookieMaxAge = 7 * 24 * 60 * 60

// SetTokenCookie persists a verified token so a refresh does not force a new
// sign-in round-trip.
func SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   tokenCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie drops the persisted token after a verification failure.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:  TokenCookieName,
		Value: "",
		Path:  "/",
		// MaxAge < 0 serializes as Max-Age=0
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}
