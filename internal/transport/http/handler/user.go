package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/user-api/internal/apierror"
	"github.com/ErlanBelekov/user-api/internal/domain"
	"github.com/ErlanBelekov/user-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// userUsecaser is the subset of UserUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type userUsecaser interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in usecase.UserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in usecase.UserInput) (*domain.User, error)
	Activate(ctx context.Context, id string) error
	Inactivate(ctx context.Context, id string) error
	Authenticate(ctx context.Context, in usecase.AuthInput) (*usecase.AuthResult, error)
	SendTestEmail(ctx context.Context) (*usecase.EmailReceipt, error)
}

type UserHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

// Email format is checked by the usecase so that it maps to "Invalid e-mail!".
type userRequest struct {
	Name     string `json:"name"     binding:"required,max=256"`
	Email    string `json:"email"    binding:"required,max=320"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type authRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sendEmailResponse struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Sent    bool      `json:"sent"`
	SentAt  time.Time `json:"sent_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// GET /user/
// An empty user table is a 404, not an empty array.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoUsers) {
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUsersNotFound)
			return
		}
		h.internalError(c, "list users", err)
		return
	}

	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, items)
}

// GET /user/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUserNotFound)
			return
		}
		h.internalError(c, "get user", err, "user_id", id)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// POST /user/
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotCreated):
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUserNotCreated)
		case errors.Is(err, domain.ErrInvalidEmail):
			apierror.Respond(c, http.StatusUnprocessableEntity, categoryUser, msgInvalidEmail)
		case errors.Is(err, domain.ErrPasswordTooLong):
			apierror.Respond(c, http.StatusUnprocessableEntity, categoryPassword, msgPasswordTooLong)
		default:
			h.internalError(c, "create user", err)
		}
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// POST /user/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	id := c.Param("id")

	err := h.users.Activate(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUserNotFound)
		case errors.Is(err, domain.ErrUserAlreadyActive):
			apierror.Respond(c, http.StatusBadRequest, categoryUser, msgUserAlreadyActive)
		default:
			h.internalError(c, "activate user", err, "user_id", id)
		}
		return
	}

	c.Status(http.StatusOK)
}

// POST /user/auth
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req authRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.users.Authenticate(c.Request.Context(), usecase.AuthInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWrongPassword):
			apierror.Respond(c, http.StatusUnauthorized, categoryPassword, msgWrongPassword)
		case errors.Is(err, domain.ErrUserNotFound):
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUserNotFound)
		default:
			h.internalError(c, "authenticate user", err)
		}
		return
	}

	c.JSON(http.StatusOK, authResponse{
		ID:        res.User.ID,
		Name:      res.User.Name,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// DELETE /user/:id
// Soft delete. An already inactive user is reported like a missing one.
func (h *UserHandler) Inactivate(c *gin.Context) {
	id := c.Param("id")

	err := h.users.Inactivate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUserAlreadyInactive) {
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUserNotFound)
			return
		}
		h.internalError(c, "inactivate user", err, "user_id", id)
		return
	}

	c.Status(http.StatusOK)
}

// PUT /user/:id
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req userRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, usecase.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			apierror.Respond(c, http.StatusNotFound, categoryUser, msgUserNotFound)
		case errors.Is(err, domain.ErrInvalidEmail):
			apierror.Respond(c, http.StatusUnprocessableEntity, categoryUser, msgInvalidEmail)
		case errors.Is(err, domain.ErrPasswordTooLong):
			apierror.Respond(c, http.StatusUnprocessableEntity, categoryPassword, msgPasswordTooLong)
		case errors.Is(err, domain.ErrUserNotUpdated):
			h.logger.WarnContext(c.Request.Context(), "update user rejected", "user_id", id, "error", err)
			apierror.Respond(c, http.StatusUnprocessableEntity, categoryUser, msgInternalServer)
		default:
			h.internalError(c, "update user", err, "user_id", id)
		}
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// POST /user/sendEmail
func (h *UserHandler) SendEmail(c *gin.Context) {
	receipt, err := h.users.SendTestEmail(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "send diagnostic email", "error", err)
		apierror.Respond(c, http.StatusInternalServerError, categoryEmail, msgEmailNotSent)
		return
	}

	c.JSON(http.StatusOK, sendEmailResponse{
		To:      receipt.To,
		Subject: receipt.Subject,
		Sent:    true,
		SentAt:  receipt.SentAt,
	})
}

// bind decodes the JSON body. Malformed bodies get 422.
func (h *UserHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.DebugContext(c.Request.Context(), "invalid request body", "error", err)
		apierror.Respond(c, http.StatusUnprocessableEntity, categoryBody, msgInvalidBody)
		return false
	}
	return true
}

func (h *UserHandler) internalError(c *gin.Context, op string, err error, attrs ...any) {
	h.logger.ErrorContext(c.Request.Context(), op, append(attrs, "error", err)...)
	apierror.Respond(c, http.StatusInternalServerError, categoryUser, msgInternalServer)
}
