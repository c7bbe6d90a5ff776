// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/usecase"
)

// DefaultTTL is used when no positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// tombstoneTTL bounds how long a read that started before a write may take to
// fill the cache. While the tombstone lives, fills for that user are skipped.
const tombstoneTTL = 10 * time.Second

// fillUnlessTombstoned sets KEYS[1] only when KEYS[2] (the tombstone) is absent.
var fillUnlessTombstoned = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// CachingUserRepository decorates a UserRepository with a Redis read-through
// cache for FindByID. Update and DeleteCascade invalidate the cached entry.
//
// Writers set a short-lived tombstone before touching the row and delete the
// entry afterwards, so a read that loaded the old row cannot put it back.
//
// Cached entries do not carry the password hash; credential checks go through
// FindByEmail, which is never cached.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
// A nil rdb turns the decorator into a passthrough.
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cachedUser is the JSON form stored in Redis.
type cachedUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCached(u *entity.User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) toEntity() *entity.User {
	return &entity.User{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	return c.inner.Create(ctx, u)
}

func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *CachingUserRepository) List(ctx context.Context) ([]entity.User, error) {
	return c.inner.List(ctx)
}

// FindByID retrieves a user, checking cache first then falling back to the database.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cu cachedUser
		if err := json.Unmarshal(b, &cu); err == nil {
			return cu.toEntity(), nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	u, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache unless a write is in flight (best effort)
	if b, err := json.Marshal(toCached(u)); err == nil {
		keys := []string{key, c.tombstoneKey(id)}
		if err := fillUnlessTombstoned.Run(ctx, c.rdb, keys, b, c.ttl.Milliseconds()).Err(); err != nil {
			slog.Debug("user cache write failed", "key", key, "error", err)
		}
	}

	return u, nil
}

// Update updates the user and drops its cache entry.
func (c *CachingUserRepository) Update(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error) {
	c.tombstone(ctx, id)
	u, err := c.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return u, nil
}

// DeleteCascade deletes the user and drops its cache entry.
func (c *CachingUserRepository) DeleteCascade(ctx context.Context, id uint) error {
	c.tombstone(ctx, id)
	if err := c.inner.DeleteCascade(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// invalidate deletes the cached entry. Best effort: failures are only logged.
func (c *CachingUserRepository) invalidate(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	key := c.cacheKey(id)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		slog.Warn("user cache invalidation failed", "key", key, "error", err)
	}
}

// tombstone marks id as being written. Best effort: failures are only logged.
func (c *CachingUserRepository) tombstone(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	key := c.tombstoneKey(id)
	if err := c.rdb.Set(ctx, key, "1", tombstoneTTL).Err(); err != nil {
		slog.Warn("user cache tombstone failed", "key", key, "error", err)
	}
}

// cacheKey generates a cache key for a user id.
func (c *CachingUserRepository) cacheKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

func (c *CachingUserRepository) tombstoneKey(id uint) string {
	return c.cacheKey(id) + ":tombstone"
}
