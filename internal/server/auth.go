package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"friendbook/internal/models"
	"friendbook/internal/repository"
)

const sessionCookie = "sid"

type contextKey string

const authKey contextKey = "auth"

// AuthContext is the per-request authentication state, resolved once
// before routing and immutable afterwards.
type AuthContext struct {
	SessionID string
	User      *models.User
}

func authFrom(r *http.Request) *AuthContext {
	auth, _ := r.Context().Value(authKey).(*AuthContext)
	return auth
}

func currentUser(r *http.Request) *models.User {
	if auth := authFrom(r); auth != nil {
		return auth.User
	}
	return nil
}

// resolveSession turns the session cookie into an AuthContext. Any
// failure along the way (missing cookie, bad signature, expired or
// unknown session) leaves the request anonymous.
func (s *Server) resolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		sid, ok := s.verifyCookie(cookie.Value)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.sessions.Get(r.Context(), sid)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		// The store slid the expiry; re-issue the cookie so its
		// max-age slides with it.
		s.setSessionCookie(w, sid)
		ctx := context.WithValue(r.Context(), authKey, &AuthContext{SessionID: sid, User: user})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// signCookie produces "<id>.<signature>" with the signature an
// HMAC-SHA256 of the id under the session secret.
func (s *Server) signCookie(id string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.SessionSecret))
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *Server) verifyCookie(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i < 0 {
		return "", false
	}
	id := value[:i]
	if !hmac.Equal([]byte(s.signCookie(id)), []byte(value)) {
		return "", false
	}
	return id, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.signCookie(sid),
		Path:     "/",
		MaxAge:   int(repository.SessionTTL.Seconds()),
		HttpOnly: true,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
