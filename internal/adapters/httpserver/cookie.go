package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookie = "sid"

// readSession returns the session id carried by a correctly signed cookie,
// or "".
func (s *Server) readSession(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return ""
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return ""
	}
	id := string(payload)
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

func (s *Server) writeSession(w http.ResponseWriter, id string) {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(id))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString([]byte(id))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    val,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionID reuses the visitor's session or starts a new one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := s.readSession(r); id != "" {
		return id
	}
	id := uuid.NewString()
	s.writeSession(w, id)
	return id
}
