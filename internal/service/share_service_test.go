package service

import (
	"context"
	"testing"

	"brainvault/internal/cache"
	"brainvault/internal/models"
	"brainvault/internal/repository"
	"brainvault/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := &models.User{Username: username, Password: "x"}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user.ID
}

func TestShareService_PublishResolveUnpublish(t *testing.T) {
	for name, withRedis := range map[string]bool{"db only": false, "with redis": true} {
		t.Run(name, func(t *testing.T) {
			db := testutil.NewSQLiteDB(t)
			var rdb *redis.Client
			if withRedis {
				mr := miniredis.RunT(t)
				rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
				t.Cleanup(func() { _ = rdb.Close() })
			}
			svc := NewShareService(repository.NewShareLinkRepository(db), rdb)
			ctx := context.Background()
			owner := seedUser(t, db, "alice")

			hash, err := svc.Publish(ctx, owner)
			require.NoError(t, err)
			assert.Len(t, hash, 32)

			got, err := svc.Resolve(ctx, hash)
			require.NoError(t, err)
			assert.Equal(t, owner, got)

			// Second resolve may come from the cache; the answer must not change.
			got, err = svc.Resolve(ctx, hash)
			require.NoError(t, err)
			assert.Equal(t, owner, got)

			require.NoError(t, svc.Unpublish(ctx, owner))

			_, err = svc.Resolve(ctx, hash)
			assert.True(t, models.IsCode(err, models.CodeNotFound))
		})
	}
}

func TestShareService_UnpublishRevokesCachedResolution(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewShareService(repository.NewShareLinkRepository(db), rdb)
	ctx := context.Background()
	owner := seedUser(t, db, "alice")

	hash, err := svc.Publish(ctx, owner)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, hash)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.ShareKey(hash)))

	require.NoError(t, svc.Unpublish(ctx, owner))
	got, err := mr.Get(cache.ShareKey(hash))
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = svc.Resolve(ctx, hash)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

// pausingLinks blocks GetByHash after the row has been read until release is
// closed.
type pausingLinks struct {
	repository.ShareLinkRepository
	read    chan struct{}
	release chan struct{}
}

func (p *pausingLinks) GetByHash(ctx context.Context, hash string) (*models.ShareLink, error) {
	link, err := p.ShareLinkRepository.GetByHash(ctx, hash)
	close(p.read)
	<-p.release
	return link, err
}

func TestShareService_UnpublishDuringResolveStaysRevoked(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	links := repository.NewShareLinkRepository(db)
	svc := NewShareService(links, rdb)
	ctx := context.Background()
	owner := seedUser(t, db, "alice")

	hash, err := svc.Publish(ctx, owner)
	require.NoError(t, err)

	paused := &pausingLinks{
		ShareLinkRepository: links,
		read:                make(chan struct{}),
		release:             make(chan struct{}),
	}
	slow := NewShareService(paused, rdb)

	type result struct {
		owner uint
		err   error
	}
	done := make(chan result, 1)
	go func() {
		got, err := slow.Resolve(ctx, hash)
		done <- result{got, err}
	}()

	<-paused.read
	require.NoError(t, svc.Unpublish(ctx, owner))
	close(paused.release)

	// The in-flight read saw the row, so it may still answer with the owner.
	inflight := <-done
	require.NoError(t, inflight.err)
	assert.Equal(t, owner, inflight.owner)

	got, err := mr.Get(cache.ShareKey(hash))
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = svc.Resolve(ctx, hash)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestShareService_HashDoesNotLeakOwner(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewShareService(repository.NewShareLinkRepository(db), nil)
	ctx := context.Background()
	owner := seedUser(t, db, "alice")

	first, err := svc.Publish(ctx, owner)
	require.NoError(t, err)
	second, err := svc.Publish(ctx, owner)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each publish mints a fresh hash")
	assert.Regexp(t, `^[0-9a-f]{32}$`, first)

	// Both links stay valid; publishing does not enforce one link per user.
	for _, h := range []string{first, second} {
		got, err := svc.Resolve(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, owner, got)
	}
}

func TestShareService_PublishRetriesOnCollision(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewShareService(repository.NewShareLinkRepository(db), nil)
	ctx := context.Background()
	owner := seedUser(t, db, "alice")

	hashes := []string{"taken", "taken", "fresh"}
	svc.newHash = func() string {
		h := hashes[0]
		hashes = hashes[1:]
		return h
	}

	first, err := svc.Publish(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "taken", first)

	second, err := svc.Publish(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "fresh", second)
}

func TestShareService_UnpublishIsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewShareService(repository.NewShareLinkRepository(db), nil)
	assert.NoError(t, svc.Unpublish(context.Background(), 12345))
}

func TestShareService_ResolveUnknown(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewShareService(repository.NewShareLinkRepository(db), nil)

	for _, h := range []string{"", "does-not-exist", string(make([]byte, 65))} {
		_, err := svc.Resolve(context.Background(), h)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	}
}
