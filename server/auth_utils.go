package server

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
)

// consoleCookieName is the cookie that binds the stored session to the
// browser that signed in through the console.
const consoleCookieName = "traveline_console"

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		return "https"
	}
	return "http"
}

// SetConsoleCookie writes the console cookie. A negative maxAge expires it.
func (s *Server) SetConsoleCookie(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     consoleCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// consoleBinding remembers a digest of the one console cookie that may use
// the stored session. It lives in memory, so a restarted console asks the
// operator to sign in again.
type consoleBinding struct {
	server *Server

	mu     sync.RWMutex
	digest []byte
}

// bind mints a fresh cookie for w, replacing any earlier binding.
func (b *consoleBinding) bind(w http.ResponseWriter, r *http.Request) {
	value := generateRandomString(32)
	sum := sha256.Sum256([]byte(value))

	b.mu.Lock()
	b.digest = sum[:]
	b.mu.Unlock()

	b.server.SetConsoleCookie(w, r, value, 0)
}

func (b *consoleBinding) Bound(r *http.Request) bool {
	cookie, err := r.Cookie(consoleCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	sum := sha256.Sum256([]byte(cookie.Value))

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.digest != nil && subtle.ConstantTimeCompare(b.digest, sum[:]) == 1
}

// Unbind forgets the binding and expires the cookie on w.
func (b *consoleBinding) Unbind(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.digest = nil
	b.mu.Unlock()

	b.server.SetConsoleCookie(w, r, "", -1)
}
