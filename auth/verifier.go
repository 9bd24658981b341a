package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/errs"
)

// Default cookie names written by the sign-in service.
const (
	SessionCookie       = "authjs.session-token"
	SecureSessionCookie = "__Secure-authjs.session-token"
)

// Claims is the payload of a session token.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 session tokens signed with the shared auth secret.
type Verifier struct {
	secret      []byte
	cookieNames []string
}

// NewVerifier builds a verifier. With no cookie names it reads both default session cookies.
// An empty secret yields a verifier that rejects every token.
func NewVerifier(secret string, cookieNames ...string) *Verifier {
	if len(cookieNames) == 0 {
		cookieNames = []string{SecureSessionCookie, SessionCookie}
	}
	return &Verifier{secret: []byte(secret), cookieNames: cookieNames}
}

// FromRequest extracts and verifies the session token of r. The token is read
// from the session cookie first, then from an Authorization bearer header.
func (v *Verifier) FromRequest(r *http.Request) (*Session, error) {
	token := v.tokenFromRequest(r)
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}
	return v.Parse(token)
}

func (v *Verifier) tokenFromRequest(r *http.Request) string {
	for _, name := range v.cookieNames {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// Parse verifies a raw token and returns its session.
func (v *Verifier) Parse(raw string) (*Session, error) {
	if len(v.secret) == 0 {
		return nil, errs.NewInvalidTokenError()
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}
	if !token.Valid {
		return nil, errs.NewInvalidTokenError()
	}

	session := &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Issue signs a session token valid for ttl. It backs local development and tests;
// production sessions come from the sign-in service.
func (v *Verifier) Issue(s Session, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", errs.NewEnvironmentVariableError("AUTH_SECRET")
	}

	now := time.Now()
	claims := Claims{
		Role:  s.Role,
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
