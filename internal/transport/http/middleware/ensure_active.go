package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/user-api/internal/apierror"
	"github.com/ErlanBelekov/user-api/internal/domain"
	"github.com/gin-gonic/gin"
)

var msgInternalServer = apierror.Text("Internal server error!", "Erro interno do servidor!")

// UserFinder is satisfied by repository.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// EnsureActive runs after Auth. Tokens of users that were inactivated
// (or never existed) are rejected even while the JWT is still valid.
func EnsureActive(users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, err := users.FindByID(ctx, c.GetString("userID"))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				apierror.Respond(c, http.StatusUnauthorized, categoryAuth, msgAuthFailed)
				return
			}
			logger.ErrorContext(ctx, "ensure active user", "error", err)
			apierror.Respond(c, http.StatusInternalServerError, "user", msgInternalServer)
			return
		}
		if !user.Active {
			apierror.Respond(c, http.StatusUnauthorized, categoryAuth, msgAuthFailed)
			return
		}
		c.Next()
	}
}
