// Package seed creates demo vaults for local development. Everything goes
// through the services, so seeded data obeys the same validation as the API.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"

	"brainvault/internal/cache"
	"brainvault/internal/models"
	"brainvault/internal/repository"
	"brainvault/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

var contentTypes = []string{"link", "article", "video", "tweet", "document"}

// Options configures a seeding run.
type Options struct {
	NumUsers     int
	ItemsPerUser int
	Share        bool
	ShouldClean  bool
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
	// BcryptCost overrides service.BcryptCost; tests use bcrypt.MinCost.
	BcryptCost int
}

// SeededUser is one demo account and, when sharing was requested, its public hash.
type SeededUser struct {
	User      *models.User
	Items     int
	ShareHash string
}

// Seeder populates the database with demo data.
type Seeder struct {
	db          *gorm.DB
	rdb         *redis.Client
	opts        Options
	faker       *gofakeit.Faker
	credentials *service.CredentialService
	contents    *service.ContentService
	shares      *service.ShareService
}

// NewSeeder returns a Seeder bound to db. rdb may be nil.
func NewSeeder(db *gorm.DB, rdb *redis.Client, opts Options) *Seeder {
	return &Seeder{
		db:          db,
		rdb:         rdb,
		opts:        opts,
		faker:       gofakeit.New(opts.Seed),
		credentials: service.NewCredentialService(repository.NewUserRepository(db), opts.BcryptCost),
		contents:    service.NewContentService(repository.NewContentRepository(db)),
		shares:      service.NewShareService(repository.NewShareLinkRepository(db), rdb),
	}
}

// Run seeds NumUsers users with ItemsPerUser items each.
func (s *Seeder) Run(ctx context.Context) ([]SeededUser, error) {
	if s.opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	seeded := make([]SeededUser, 0, s.opts.NumUsers)
	for range s.opts.NumUsers {
		user, err := s.createUser(ctx)
		if err != nil {
			return seeded, fmt.Errorf("create user: %w", err)
		}
		entry := SeededUser{User: user}

		for range s.opts.ItemsPerUser {
			if _, err := s.contents.Create(ctx, user.ID, s.contentInput()); err != nil {
				return seeded, fmt.Errorf("create content for %s: %w", user.Username, err)
			}
			entry.Items++
		}

		if s.opts.Share {
			hash, err := s.shares.Publish(ctx, user.ID)
			if err != nil {
				return seeded, fmt.Errorf("publish vault of %s: %w", user.Username, err)
			}
			entry.ShareHash = hash
		}

		seeded = append(seeded, entry)
	}

	log.Printf("✓ %d users seeded", len(seeded))
	return seeded, nil
}

// ClearAll deletes every share link, content item and user, then drops the
// cached resolutions of the deleted hashes. User ids are reused after a full
// delete, so a stale entry would point at whoever gets the id next.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("🗑️  Clearing existing data...")
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})

	var hashes []string
	if err := tx.Model(&models.ShareLink{}).Pluck("hash", &hashes).Error; err != nil {
		return err
	}
	for _, model := range []any{&models.ShareLink{}, &models.Content{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return err
		}
	}

	if err := cache.Invalidate(ctx, s.rdb, cache.ShareKeys(hashes)...); err != nil {
		return fmt.Errorf("evict %d share links: %w", len(hashes), err)
	}
	return nil
}

func (s *Seeder) createUser(ctx context.Context) (*models.User, error) {
	// Random usernames can collide; retry a few times before giving up.
	var lastErr error
	for range 5 {
		user, err := s.credentials.Register(ctx, s.username(), DefaultPassword)
		if err == nil {
			return user, nil
		}
		if !models.IsCode(err, models.CodeConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Seeder) username() string {
	name := strings.ToLower(s.faker.Username()) + fmt.Sprintf("%d", s.faker.Number(100, 999))
	if len(name) > 30 {
		name = name[len(name)-30:]
	}
	return name
}

func (s *Seeder) contentInput() service.CreateContentInput {
	title := s.faker.Sentence(4)
	if len(title) > 100 {
		title = title[:100]
	}

	tags := make([]string, s.faker.Number(0, 4))
	for i := range tags {
		tags[i] = strings.ToLower(s.faker.Word())
	}

	return service.CreateContentInput{
		Type:  s.faker.RandomString(contentTypes),
		Link:  s.faker.URL(),
		Title: title,
		Tags:  tags,
	}
}
