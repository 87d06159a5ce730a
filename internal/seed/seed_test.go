package seed

import (
	"context"
	"testing"

	"brainvault/internal/cache"
	"brainvault/internal/models"
	"brainvault/internal/repository"
	"brainvault/internal/service"
	"brainvault/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s := NewSeeder(db, nil, Options{
		NumUsers:     3,
		ItemsPerUser: 4,
		Share:        true,
		Seed:         42,
		BcryptCost:   bcrypt.MinCost,
	})

	seeded, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, seeded, 3)

	var contentCount, linkCount int64
	require.NoError(t, db.Model(&models.Content{}).Count(&contentCount).Error)
	require.NoError(t, db.Model(&models.ShareLink{}).Count(&linkCount).Error)
	assert.Equal(t, int64(12), contentCount)
	assert.Equal(t, int64(3), linkCount)

	credentials := service.NewCredentialService(repository.NewUserRepository(db), bcrypt.MinCost)
	shares := service.NewShareService(repository.NewShareLinkRepository(db), nil)
	for _, entry := range seeded {
		assert.Equal(t, 4, entry.Items)

		_, err := credentials.Verify(context.Background(), entry.User.Username, DefaultPassword)
		assert.NoError(t, err, "seeded users sign in with the default password")

		owner, err := shares.Resolve(context.Background(), entry.ShareHash)
		require.NoError(t, err)
		assert.Equal(t, entry.User.ID, owner)
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	opts := Options{NumUsers: 2, ItemsPerUser: 1, Share: true, Seed: 7, BcryptCost: bcrypt.MinCost}

	_, err := NewSeeder(db, nil, opts).Run(context.Background())
	require.NoError(t, err)

	opts.ShouldClean = true
	opts.NumUsers = 1
	opts.Seed = 8
	_, err = NewSeeder(db, nil, opts).Run(context.Background())
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestSeeder_ClearAllDropsCachedResolutions(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	s := NewSeeder(db, rdb, Options{NumUsers: 2, Share: true, Seed: 3, BcryptCost: bcrypt.MinCost})
	seeded, err := s.Run(ctx)
	require.NoError(t, err)

	shares := service.NewShareService(repository.NewShareLinkRepository(db), rdb)
	for _, entry := range seeded {
		_, err := shares.Resolve(ctx, entry.ShareHash)
		require.NoError(t, err)
		require.True(t, mr.Exists(cache.ShareKey(entry.ShareHash)))
	}

	require.NoError(t, s.ClearAll(ctx))

	for _, entry := range seeded {
		assert.False(t, mr.Exists(cache.ShareKey(entry.ShareHash)), entry.ShareHash)
	}

	// A user reseeded into a reused id must not inherit the old public hash.
	reseeded, err := NewSeeder(db, rdb, Options{NumUsers: 2, Seed: 4, BcryptCost: bcrypt.MinCost}).Run(ctx)
	require.NoError(t, err)
	require.Len(t, reseeded, 2)
	for _, entry := range seeded {
		_, err := shares.Resolve(ctx, entry.ShareHash)
		assert.True(t, models.IsCode(err, models.CodeNotFound), entry.ShareHash)
	}
}
