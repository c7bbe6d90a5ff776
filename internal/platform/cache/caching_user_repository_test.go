package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/usecase"
)

// mockUserRepository はテスト用のUserRepositoryモック実装です。
type mockUserRepository struct {
	findByIDFn      func(ctx context.Context, id uint) (*entity.User, error)
	updateFn        func(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error)
	deleteCascadeFn func(ctx context.Context, id uint) error
	findByIDCalls   int
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error { return nil }

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) { return nil, nil }

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	m.findByIDCalls++
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) DeleteCascade(ctx context.Context, id uint) error {
	if m.deleteCascadeFn != nil {
		return m.deleteCascadeFn(ctx, id)
	}
	return nil
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleUser() *entity.User {
	first := "John"
	return &entity.User{
		ID:           1,
		Email:        "a@x.com",
		PasswordHash: "$2a$10$secret",
		FirstName:    &first,
		CreatedAt:    fixedTime,
		UpdatedAt:    fixedTime,
	}
}

// TestNewCachingUserRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingUserRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", DefaultTTL, "users"},
		{"negative ttl uses default", -time.Minute, "", DefaultTTL, "users"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingUserRepository(nil, tt.ttl, &mockUserRepository{}, tt.namespace)

			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

// TestCachingUserRepository_FindByID_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingUserRepository_FindByID_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return sampleUser(), nil },
	}
	repo := NewCachingUserRepository(nil, time.Minute, inner, "")

	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, 1, inner.findByIDCalls)

	_, err = repo.Update(context.Background(), 1, entity.UserPatch{})
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

// TestCachingUserRepository_FindByID_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingUserRepository_FindByID_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(toCached(sampleUser()))
	mock.ExpectGet("users:id:1").SetVal(string(cached))

	inner := &mockUserRepository{}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, inner.findByIDCalls, "inner repository should not be called on cache hit")
	assert.Equal(t, "John", *u.FirstName)
	assert.True(t, fixedTime.Equal(u.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_FindByID_CacheMiss はキャッシュミス時にDBから取得し、ハッシュを除いてキャッシュに保存することを検証します。
func TestCachingUserRepository_FindByID_CacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(toCached(sampleUser()))

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return sampleUser(), nil },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$secret", u.PasswordHash, "miss returns the repository value untouched")

	stored, err := mr.Get("users:id:1")
	require.NoError(t, err)
	assert.JSONEq(t, string(expectedJSON), stored)
	assert.NotContains(t, stored, "secret")
	assert.Equal(t, 5*time.Minute, mr.TTL("users:id:1"))
}

// TestCachingUserRepository_FindByID_InnerError は内部リポジトリのエラーが伝播し、キャッシュに書かれないことを検証します。
func TestCachingUserRepository_FindByID_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("users:id:9").RedisNil()

	repo := NewCachingUserRepository(rdb, 5*time.Minute, &mockUserRepository{}, "users")
	_, err := repo.FindByID(context.Background(), 9)

	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_FindByID_CorruptedCache は破損したキャッシュを置き換え、DBにフォールバックすることを検証します。
func TestCachingUserRepository_FindByID_CorruptedCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	require.NoError(t, mr.Set("users:id:1", "invalid json"))
	expectedJSON, _ := json.Marshal(toCached(sampleUser()))

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return sampleUser(), nil },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	_, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.findByIDCalls)

	stored, err := mr.Get("users:id:1")
	require.NoError(t, err)
	assert.JSONEq(t, string(expectedJSON), stored)
}

// TestCachingUserRepository_Invalidation は更新・削除の成功時のみキャッシュが削除されることを検証します。
func TestCachingUserRepository_Invalidation(t *testing.T) {
	t.Parallel()

	t.Run("update invalidates", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectSet("users:id:1:tombstone", "1", tombstoneTTL).SetVal("OK")
		mock.ExpectDel("users:id:1").SetVal(1)

		inner := &mockUserRepository{
			updateFn: func(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error) {
				return sampleUser(), nil
			},
		}
		repo := NewCachingUserRepository(rdb, time.Minute, inner, "users")

		_, err := repo.Update(context.Background(), 1, entity.UserPatch{})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete invalidates", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectSet("users:id:1:tombstone", "1", tombstoneTTL).SetVal("OK")
		mock.ExpectDel("users:id:1").SetVal(1)

		repo := NewCachingUserRepository(rdb, time.Minute, &mockUserRepository{}, "users")

		require.NoError(t, repo.DeleteCascade(context.Background(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed delete leaves cache alone", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectSet("users:id:1:tombstone", "1", tombstoneTTL).SetVal("OK")

		expectedErr := errors.New("database error")
		inner := &mockUserRepository{
			deleteCascadeFn: func(ctx context.Context, id uint) error { return expectedErr },
		}
		repo := NewCachingUserRepository(rdb, time.Minute, inner, "users")

		assert.ErrorIs(t, repo.DeleteCascade(context.Background(), 1), expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache failure does not fail the operation", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectSet("users:id:1:tombstone", "1", tombstoneTTL).SetErr(errors.New("redis down"))
		mock.ExpectDel("users:id:1").SetErr(errors.New("redis down"))

		repo := NewCachingUserRepository(rdb, time.Minute, &mockUserRepository{}, "users")

		assert.NoError(t, repo.DeleteCascade(context.Background(), 1))
	})
}

// TestCachingUserRepository_Miniredis は実際のRedisプロトコル上で読み込み・TTL・無効化が機能することを検証します。
func TestCachingUserRepository_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	current := sampleUser()
	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) {
			u := *current
			return &u, nil
		},
		updateFn: func(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error) {
			current.Email = *patch.Email
			u := *current
			return &u, nil
		},
	}
	repo := NewCachingUserRepository(rdb, time.Minute, inner, "users")
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.findByIDCalls, "second read should be served from cache")
	assert.True(t, mr.Exists("users:id:1"))
	assert.Equal(t, time.Minute, mr.TTL("users:id:1"))

	newEmail := "b@x.com"
	_, err = repo.Update(ctx, 1, entity.UserPatch{Email: &newEmail})
	require.NoError(t, err)
	assert.False(t, mr.Exists("users:id:1"))

	u, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.Email)
	assert.Equal(t, 2, inner.findByIDCalls)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("users:id:1"), "entry should expire after the TTL")
}

// TestCachingUserRepository_ReadRacingDelete は削除前に読み込んだ古い行が、削除後にキャッシュへ書き戻されないことを検証します。
func TestCachingUserRepository_ReadRacingDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	var repo *CachingUserRepository
	deleted := false
	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) {
			if deleted {
				return nil, usecase.ErrUserNotFound
			}
			// 行を読み込んだ直後に、別のリクエストが削除を完了させる
			u := sampleUser()
			require.NoError(t, repo.DeleteCascade(ctx, id))
			deleted = true
			return u, nil
		},
	}
	repo = NewCachingUserRepository(rdb, time.Minute, inner, "users")

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, mr.Exists("users:id:1"), "stale row must not be cached after the delete")

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	mr.FastForward(tombstoneTTL)
	assert.False(t, mr.Exists("users:id:1:tombstone"), "tombstone should expire")
}
