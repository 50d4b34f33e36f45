package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/user-api/internal/apierror"
	"github.com/ErlanBelekov/user-api/internal/reqctx"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const categoryAuth = "auth"

var msgAuthFailed = apierror.Text("Authentication failed!", "Falha na autenticação!")

// Auth validates a Bearer JWT issued by POST /user/auth and sets "userID"
// in the gin context and the request context.
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apierror.Respond(c, http.StatusUnauthorized, categoryAuth, msgAuthFailed)
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			apierror.Respond(c, http.StatusUnauthorized, categoryAuth, msgAuthFailed)
			return
		}

		userID, err := token.Claims.GetSubject()
		if err != nil || userID == "" {
			apierror.Respond(c, http.StatusUnauthorized, categoryAuth, msgAuthFailed)
			return
		}

		c.Set("userID", userID)
		c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
