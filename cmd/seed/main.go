// Command seed fills the configured database with demo vaults.
package main

import (
	"context"
	"flag"
	"log"

	"brainvault/internal/cache"
	"brainvault/internal/config"
	"brainvault/internal/database"
	"brainvault/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 5, "Number of users to create")
	itemsPerUser := flag.Int("items", 10, "Content items per user")
	share := flag.Bool("share", true, "Publish a share link for every user")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d items each, share=%v, clean=%v\n", *numUsers, *itemsPerUser, *share, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	rdb := cache.NewClient(ctx, cfg.RedisURL)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	seeded, err := seed.NewSeeder(db, rdb, seed.Options{
		NumUsers:     *numUsers,
		ItemsPerUser: *itemsPerUser,
		Share:        *share,
		ShouldClean:  *shouldClean,
	}).Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	for _, entry := range seeded {
		if entry.ShareHash != "" {
			log.Printf("%s: %d items, shared at /api/v1/brain/%s", entry.User.Username, entry.Items, entry.ShareHash)
		} else {
			log.Printf("%s: %d items", entry.User.Username, entry.Items)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
