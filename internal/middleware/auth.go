package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Authorizer decides whether a request may reach the admin surface.
type Authorizer interface {
	Authorize(c *gin.Context) bool
}

// KeyOrJWTAuthorizer accepts either the shared admin key, sent as the
// X-Admin-Key header or the admin_key query parameter, or an HMAC signed
// bearer token whose role claim is "admin". An empty JWTSecret disables
// the bearer path.
type KeyOrJWTAuthorizer struct {
	AdminKey  string
	JWTSecret string
}

func (a KeyOrJWTAuthorizer) Authorize(c *gin.Context) bool {
	key := c.GetHeader("X-Admin-Key")
	if key == "" {
		key = c.Query("admin_key")
	}
	if key != "" && a.AdminKey != "" &&
		subtle.ConstantTimeCompare([]byte(key), []byte(a.AdminKey)) == 1 {
		return true
	}

	if a.JWTSecret == "" {
		return false
	}
	auth := c.GetHeader("Authorization")
	parts := strings.Fields(auth)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(a.JWTSecret), nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// AdminOnly aborts with 401 unless the authorizer admits the request.
func AdminOnly(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Authorize(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authorization required"})
			return
		}
		c.Next()
	}
}
