package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session")

// Claims identifies a logged-in member by community username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// SessionManager signs and verifies the session cookie.
type SessionManager struct {
	secretKey []byte
	ttl       time.Duration
	secure    bool
}

// NewSessionManager creates a manager. secure marks the cookie HTTPS-only.
func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secretKey: []byte(secret),
		ttl:       ttl,
		secure:    secure,
	}
}

// Issue returns a signed session token for username.
func (s *SessionManager) Issue(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

// Parse verifies tokenString and returns its username.
func (s *SessionManager) Parse(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Username == "" {
		return "", ErrInvalidSession
	}
	return claims.Username, nil
}

// SetCookie issues a session for username and writes it to w.
func (s *SessionManager) SetCookie(w http.ResponseWriter, username string) error {
	token, err := s.Issue(username)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (s *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the username of the request's session cookie.
func (s *SessionManager) FromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrInvalidSession
	}
	return s.Parse(cookie.Value)
}
