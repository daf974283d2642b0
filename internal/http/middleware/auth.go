package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// HeaderUserID is the demo identity header honored when AuthOptions allows it.
const HeaderUserID = "X-User-ID"

// Claims is the bearer token payload. The user id travels in "sub"; a
// "user_id" claim is accepted as a fallback.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Caller returns the user id carried by the token.
func (c *Claims) Caller() string {
	if c.RegisteredClaims.Subject != "" {
		return c.RegisteredClaims.Subject
	}
	return c.UserID
}

// AuthOptions configures Auth.
type AuthOptions struct {
	// JWTSecret verifies HS256 bearer tokens. Empty disables bearer auth and
	// any presented token is rejected.
	JWTSecret string
	// AllowUserHeader trusts X-User-ID when no bearer token is sent. Demo use
	// only.
	AllowUserHeader bool
}

var errNoSecret = errors.New("bearer tokens are not enabled")

// GenerateToken signs an HS256 token for userID valid for ttl.
func GenerateToken(userID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errNoSecret
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateToken parses and verifies a bearer token.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, errNoSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Caller() == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth resolves the caller identity. Requests without credentials continue
// as anonymous; a malformed or invalid bearer token is answered with 401.
// On success the user id is stored under the "userID" context key.
func Auth(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "인증 정보 형식이 올바르지 않습니다.")
				return
			}
			claims, err := ValidateToken(strings.TrimSpace(token), opts.JWTSecret)
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("bearer token rejected")
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "인증이 만료되었거나 올바르지 않습니다.")
				return
			}
			setUser(c, claims.Caller())
			c.Next()
			return
		}

		if opts.AllowUserHeader {
			if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
				setUser(c, uid)
			}
		}
		c.Next()
	}
}

// setUser records uid and tags the request-scoped logger with it.
func setUser(c *gin.Context, uid string) {
	c.Set(userIDKey, uid)
	l := LoggerFrom(c).With().Str("user_id", uid).Logger()
	attachLogger(c, l)
}
