package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/staybnb/webserver/config"
)

var (
	ErrMissingSession = errors.New("no session cookie")
	ErrInvalidSession = errors.New("invalid or expired session")
)

// SessionManager binds a browser to a user id through a signed JWT stored in
// an HttpOnly cookie. The token carries only the user id as its subject.
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	name := cfg.CookieName
	if name == "" {
		name = "session"
	}
	return &SessionManager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: name,
		secure:     cfg.CookieSecure,
		now:        time.Now,
	}
}

// Start issues a token for userID and sets it on the response.
func (m *SessionManager) Start(w http.ResponseWriter, userID int) error {
	token, err := m.issueToken(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  m.now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// CurrentUserID returns the user bound to the request, if any.
func (m *SessionManager) CurrentUserID(r *http.Request) (int, bool) {
	userID, err := m.userIDFromRequest(r)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) userIDFromRequest(r *http.Request) (int, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return 0, ErrMissingSession
	}

	subject, err := m.parseTokenSubject(cookie.Value)
	if err != nil {
		return 0, ErrInvalidSession
	}

	userID, err := strconv.Atoi(subject)
	if err != nil || userID < 1 {
		return 0, ErrInvalidSession
	}
	return userID, nil
}

func (m *SessionManager) issueToken(userID int) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *SessionManager) parseTokenSubject(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}
