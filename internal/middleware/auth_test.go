package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func adminRequest(t *testing.T, auth Authorizer, setup func(*http.Request)) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminOnly(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	setup(req)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAdminKeyHeader(t *testing.T) {
	auth := KeyOrJWTAuthorizer{AdminKey: "secret"}

	code := adminRequest(t, auth, func(req *http.Request) {
		req.Header.Set("X-Admin-Key", "secret")
	})
	if code != http.StatusOK {
		t.Fatalf("valid key: got %d, want 200", code)
	}

	code = adminRequest(t, auth, func(req *http.Request) {
		req.Header.Set("X-Admin-Key", "wrong")
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong key: got %d, want 401", code)
	}
}

func TestAdminKeyQueryParam(t *testing.T) {
	auth := KeyOrJWTAuthorizer{AdminKey: "secret"}

	code := adminRequest(t, auth, func(req *http.Request) {
		q := req.URL.Query()
		q.Set("admin_key", "secret")
		req.URL.RawQuery = q.Encode()
	})
	if code != http.StatusOK {
		t.Fatalf("valid query key: got %d, want 200", code)
	}
}

func TestMissingCredentials(t *testing.T) {
	auth := KeyOrJWTAuthorizer{AdminKey: "secret", JWTSecret: "hmac"}
	code := adminRequest(t, auth, func(*http.Request) {})
	if code != http.StatusUnauthorized {
		t.Fatalf("no credentials: got %d, want 401", code)
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminJWT(t *testing.T) {
	auth := KeyOrJWTAuthorizer{AdminKey: "secret", JWTSecret: "hmac"}
	exp := time.Now().Add(time.Hour).Unix()

	code := adminRequest(t, auth, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hmac", jwt.MapClaims{"role": "admin", "exp": exp}))
	})
	if code != http.StatusOK {
		t.Fatalf("admin token: got %d, want 200", code)
	}

	code = adminRequest(t, auth, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hmac", jwt.MapClaims{"role": "parent", "exp": exp}))
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("non-admin role: got %d, want 401", code)
	}

	code = adminRequest(t, auth, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", jwt.MapClaims{"role": "admin", "exp": exp}))
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: got %d, want 401", code)
	}
}
