package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"wagesheet/internal/domain/session"
	"wagesheet/internal/requestctx"
)

// Session resolves the signed session cookie, starting a new session when it is
// missing or invalid, and refreshes the cookie expiry on every request.
func Session(secret string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(session.CookieName); err == nil {
				if claims, err := session.ParseToken(secret, cookie.Value); err == nil {
					sessionID = claims.SessionID
				}
			}
			ctx := r.Context()
			if sessionID == "" {
				sessionID = session.NewID()
				ctx = requestctx.WithNewSession(ctx)
			}

			token, err := session.IssueToken(secret, sessionID, ttl)
			if err != nil {
				log.WithError(err).Warn("session token issue failed")
			} else {
				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = requestctx.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSessionID(r *http.Request) string {
	return requestctx.GetSessionID(r.Context())
}

// IsNewSession reports whether the request arrived without a valid session cookie.
func IsNewSession(r *http.Request) bool {
	return requestctx.IsNewSession(r.Context())
}
