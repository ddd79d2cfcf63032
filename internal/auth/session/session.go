// Package session mints and validates the signed session tokens carried by
// the session cookie or the Authorization header.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cyberhud/hud-docs-api/internal/db/models"
)

// CookieName is the session cookie set after a successful login.
const CookieName = "session_token"

// Session is the identity recovered from a validated token.
type Session struct {
	UserID   string
	TenantID string
}

// Claims are the signed claims carried in a session token.
type Claims struct {
	TenantID string `json:"tid"`
	jwt.RegisteredClaims
}

// Codec signs and validates session tokens. Pure function of its inputs and
// the static secret, safe under unbounded concurrency.
type Codec struct {
	secret        []byte
	ttl           time.Duration
	secureCookies bool
}

// NewCodec builds a codec. secureCookies should be true in production so the
// cookie is only sent over TLS.
func NewCodec(secret string, ttl time.Duration, secureCookies bool) *Codec {
	return &Codec{
		secret:        []byte(secret),
		ttl:           ttl,
		secureCookies: secureCookies,
	}
}

// Mint signs a session token for the given user.
func (c *Codec) Mint(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate verifies signature and expiry. It reports only success or
// failure; callers cannot distinguish an expired token from a forged one.
func (c *Codec) Validate(tokenString string) (Session, bool) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return Session{}, false
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.TenantID == "" {
		return Session{}, false
	}
	return Session{UserID: claims.Subject, TenantID: claims.TenantID}, true
}

// ExtractCredential reads the session token from the request. The cookie
// takes precedence over the Authorization header; this ordering is a fixed
// contract.
func (c *Codec) ExtractCredential(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// SetCookie writes the session cookie on the response.
func (c *Codec) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
