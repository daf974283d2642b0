package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func authRouter(opts AuthOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(Auth(opts))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+"|"+Identity(c))
	})
	return r
}

func whoami(r http.Handler, setup func(*http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if setup != nil {
		setup(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateAndValidateToken(t *testing.T) {
	tok, err := GenerateToken("u-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ValidateToken(tok, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Caller() != "u-1" {
		t.Fatalf("caller = %q", claims.Caller())
	}

	if _, err := ValidateToken(tok, "other-secret"); err == nil {
		t.Fatalf("wrong secret must fail")
	}
	if _, err := GenerateToken("u-1", "", time.Hour); err == nil {
		t.Fatalf("empty secret must fail")
	}
	if _, err := ValidateToken(tok, ""); err == nil {
		t.Fatalf("validation without secret must fail")
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	expired, _ := GenerateToken("u-1", testSecret, -time.Minute)
	if _, err := ValidateToken(expired, testSecret); err == nil {
		t.Fatalf("expired token accepted")
	}

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte(testSecret))
	if _, err := ValidateToken(noSubject, testSecret); err == nil {
		t.Fatalf("token without caller accepted")
	}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "u-1"}).SignedString([]byte(testSecret))
	if _, err := ValidateToken(hs512, testSecret); err == nil {
		t.Fatalf("unexpected signing method accepted")
	}
}

func TestClaims_CallerFallsBackToUserIDClaim(t *testing.T) {
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "legacy"}).SignedString([]byte(testSecret))
	claims, err := ValidateToken(tok, testSecret)
	if err != nil || claims.Caller() != "legacy" {
		t.Fatalf("claims=%v err=%v", claims, err)
	}
}

func TestAuth_Anonymous(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})
	w := whoami(r, func(req *http.Request) { req.Header.Set("X-Forwarded-For", "203.0.113.7") })
	if w.Code != http.StatusOK || w.Body.String() != "|ip:203.0.113.7" {
		t.Fatalf("anonymous: %d %q", w.Code, w.Body.String())
	}
}

func TestAuth_ValidBearer(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})
	tok, _ := GenerateToken("u-7", testSecret, time.Hour)
	w := whoami(r, func(req *http.Request) { req.Header.Set("Authorization", "bearer "+tok) })
	if w.Code != http.StatusOK || w.Body.String() != "u-7|user:u-7" {
		t.Fatalf("bearer: %d %q", w.Code, w.Body.String())
	}
}

func TestAuth_InvalidCredentials(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})
	for name, header := range map[string]string{
		"basic scheme":  "Basic dXNlcjpwYXNz",
		"empty bearer":  "Bearer ",
		"garbage token": "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			w := whoami(r, func(req *http.Request) { req.Header.Set("Authorization", header) })
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("code = %d", w.Code)
			}
			if code := errorCode(t, w.Body.Bytes()); code != "unauthorized" {
				t.Fatalf("error code = %q", code)
			}
		})
	}
}

func TestAuth_BearerWithoutSecretRejected(t *testing.T) {
	r := authRouter(AuthOptions{})
	tok, _ := GenerateToken("u-1", testSecret, time.Hour)
	w := whoami(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) })
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestAuth_UserHeader(t *testing.T) {
	set := func(req *http.Request) { req.Header.Set(HeaderUserID, " demo-user ") }

	w := whoami(authRouter(AuthOptions{}), set)
	if w.Body.String() == "demo-user|user:demo-user" {
		t.Fatalf("header must be ignored unless allowed")
	}

	w = whoami(authRouter(AuthOptions{AllowUserHeader: true}), set)
	if w.Code != http.StatusOK || w.Body.String() != "demo-user|user:demo-user" {
		t.Fatalf("allowed header: %d %q", w.Code, w.Body.String())
	}
}
