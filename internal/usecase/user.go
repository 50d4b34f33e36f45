package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/user-api/internal/domain"
	"github.com/ErlanBelekov/user-api/internal/email"
	"github.com/ErlanBelekov/user-api/internal/metrics"
	"github.com/ErlanBelekov/user-api/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultJWTTTL = 24 * time.Hour
	// bcrypt rejects longer input. Binding counts characters, not bytes.
	maxPasswordBytes = 72
)

var validate = validator.New()

// UserCache is a best-effort cache of single users. Misses and write
// failures never fail the calling operation. Set is a read-through fill:
// after Delete, a fill carrying a row read before the write must not
// land.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Delete(ctx context.Context, id string)
}

// NopCache is used when no cache backend is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*domain.User, bool) { return nil, false }
func (NopCache) Set(context.Context, *domain.User)                {}
func (NopCache) Delete(context.Context, string)                   {}

type UserUsecase struct {
	users        repository.UserRepository
	cache        UserCache
	email        email.Sender
	jwtKey       []byte
	jwtTTL       time.Duration
	hashCost     int
	diagnosticTo string
	now          func() time.Time
}

func NewUserUsecase(
	users repository.UserRepository,
	cache UserCache,
	emailSender email.Sender,
	jwtKey []byte,
	diagnosticTo string,
) *UserUsecase {
	if cache == nil {
		cache = NopCache{}
	}
	return &UserUsecase{
		users:        users,
		cache:        cache,
		email:        emailSender,
		jwtKey:       jwtKey,
		jwtTTL:       defaultJWTTTL,
		hashCost:     bcrypt.DefaultCost,
		diagnosticTo: diagnosticTo,
		now:          time.Now,
	}
}

type UserInput struct {
	Name     string
	Email    string
	Password string
}

type AuthInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type EmailReceipt struct {
	To      string
	Subject string
	SentAt  time.Time
}

// List returns every user, oldest first. An empty table is ErrNoUsers.
func (u *UserUsecase) List(ctx context.Context) ([]*domain.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNoUsers
	}
	return users, nil
}

func (u *UserUsecase) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if cached, ok := u.cache.Get(ctx, id); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.cache.Set(ctx, user)
	return user, nil
}

// Create validates the email, hashes the password and stores an active user.
// A duplicate email is reported as ErrUserNotCreated.
func (u *UserUsecase) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	addr, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	hash, err := u.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := u.users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        addr,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrUserNotCreated
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreatedTotal.Inc()
	return created, nil
}

// Update replaces name, email and password. An email owned by another
// user is reported as ErrUserNotUpdated.
func (u *UserUsecase) Update(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	addr, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	hash, err := u.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	updated, err := u.users.Update(ctx, &domain.User{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Email:        addr,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrUserNotUpdated
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	u.cache.Delete(ctx, id)
	return updated, nil
}

func (u *UserUsecase) Activate(ctx context.Context, id string) error {
	return u.setActive(ctx, id, true)
}

// Inactivate is a soft delete: the row stays, only the flag changes.
func (u *UserUsecase) Inactivate(ctx context.Context, id string) error {
	return u.setActive(ctx, id, false)
}

func (u *UserUsecase) setActive(ctx context.Context, id string, active bool) error {
	if err := u.users.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set active=%t: %w", active, err)
	}
	u.cache.Delete(ctx, id)

	status := "inactive"
	if active {
		status = "active"
	}
	metrics.UserStatusChangesTotal.WithLabelValues(status).Inc()
	return nil
}

// Authenticate checks the credentials and returns a signed JWT.
// Inactive users are treated as unknown.
func (u *UserUsecase) Authenticate(ctx context.Context, in AuthInput) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("unknown_user").Inc()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		metrics.AuthAttemptsTotal.WithLabelValues("unknown_user").Inc()
		return nil, domain.ErrUserNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			metrics.AuthAttemptsTotal.WithLabelValues("wrong_password").Inc()
			return nil, domain.ErrWrongPassword
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	now := u.now()
	expiresAt := now.Add(u.jwtTTL)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return &AuthResult{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}

// SendTestEmail sends a fixed diagnostic message to the configured recipient.
func (u *UserUsecase) SendTestEmail(ctx context.Context) (*EmailReceipt, error) {
	if u.diagnosticTo == "" {
		return nil, domain.ErrEmailNotConfigured
	}

	now := u.now()
	msg := email.Message{
		To:      u.diagnosticTo,
		Subject: "User API diagnostic email",
		HTML: fmt.Sprintf(
			`<p>This is a diagnostic message sent at %s.</p><p>If you received it, email delivery works.</p>`,
			now.UTC().Format(time.RFC3339),
		),
	}
	if err := u.email.Send(ctx, msg); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("send diagnostic email: %w", err)
	}

	metrics.EmailsSentTotal.WithLabelValues("sent").Inc()
	return &EmailReceipt{To: msg.To, Subject: msg.Subject, SentAt: now}, nil
}

func (u *UserUsecase) hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(raw string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(addr, "required,email"); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return addr, nil
}
