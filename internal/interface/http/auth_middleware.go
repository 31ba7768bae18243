package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity.userID"

// identityMiddleware resolves an optional bearer identity. Requests without
// an Authorization header stay anonymous; a presented token must verify.
func identityMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || secret == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid token", err))
			return
		}
		if subject, err := token.Claims.GetSubject(); err == nil && subject != "" {
			c.Set(identityKey, subject)
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) string {
	value, ok := c.Get(identityKey)
	if !ok {
		return ""
	}
	userID, _ := value.(string)
	return userID
}
