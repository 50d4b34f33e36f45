package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/user-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "user:"

	// tombstone marks a freshly invalidated key. Fills use SETNX, so a
	// reader that loaded the row before the write cannot put it back
	// until the tombstone expires.
	tombstone    = "-"
	tombstoneTTL = 10 * time.Second
)

// cachedUser is the JSON shape stored in Redis. It never carries the
// password hash.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCache is a read-through cache for single users keyed by id.
// Every failure is logged and treated as a miss. Set only fills absent
// keys and Delete leaves a tombstone, so a stale fill racing a write is
// dropped.
type UserCache struct {
	rdb    goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewUserCache(client *Client, ttl time.Duration, logger *slog.Logger) *UserCache {
	return &UserCache{
		rdb:    client.rdb,
		ttl:    ttl,
		logger: logger.With("component", "user_cache"),
	}
}

func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, bool) {
	data, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WarnContext(ctx, "cache read", "user_id", id, "error", err)
		}
		return nil, false
	}
	if string(data) == tombstone {
		return nil, false
	}
	u, err := decodeUser(data)
	if err != nil {
		c.logger.WarnContext(ctx, "cache decode", "user_id", id, "error", err)
		return nil, false
	}
	return u, true
}

func (c *UserCache) Set(ctx context.Context, u *domain.User) {
	data, err := encodeUser(u)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode", "user_id", u.ID, "error", err)
		return
	}
	if err := c.rdb.SetNX(ctx, userKey(u.ID), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write", "user_id", u.ID, "error", err)
	}
}

func (c *UserCache) Delete(ctx context.Context, id string) {
	if err := c.rdb.Set(ctx, userKey(id), tombstone, tombstoneTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache delete", "user_id", id, "error", err)
	}
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func encodeUser(u *domain.User) ([]byte, error) {
	return json.Marshal(cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
}

func decodeUser(data []byte) (*domain.User, error) {
	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        cu.ID,
		Name:      cu.Name,
		Email:     cu.Email,
		Active:    cu.Active,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, nil
}
