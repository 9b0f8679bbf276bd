package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"techblog/internal/config"
	"techblog/internal/db"
	"techblog/internal/model"
	"techblog/internal/repository"
	"techblog/internal/slug"
)

const bcryptCost = 12

type seedPost struct {
	Title   string
	Excerpt string
	Content string
}

var seedPosts = []seedPost{
	{
		Title:   "Welcome to the Tech Blog",
		Excerpt: "The first post on our new platform.",
		Content: "This is the first post on the platform. We will share engineering notes and lessons learned here.",
	},
	{
		Title:   "Designing a Post Lifecycle",
		Excerpt: "Draft, published, archived - and the invariants between them.",
		Content: "A post moves between draft, published and archived states. The publish timestamp exists exactly while the post is published.",
	},
	{
		Title:   "Rate Limiting Comments",
		Excerpt: "Why a per-author cooldown beats a global throttle for small blogs.",
		Content: "A short cooldown per author keeps comment spam manageable without punishing legitimate readers.",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	admin, err := seedAdmin(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	log.Printf("Seeded admin user: %s", admin.Email)

	created, skipped := 0, 0
	for _, fixture := range seedPosts {
		postSlug := slug.Make(fixture.Title)

		exists, err := postRepo.SlugExists(ctx, postSlug, uuid.Nil)
		if err != nil {
			log.Fatalf("Failed to probe slug %q: %v", postSlug, err)
		}
		if exists {
			skipped++
			continue
		}

		now := time.Now()
		excerpt := fixture.Excerpt
		post := &model.Post{
			Title:       fixture.Title,
			Slug:        postSlug,
			Excerpt:     &excerpt,
			Content:     fixture.Content,
			Status:      model.PostStatusPublished,
			PublishedAt: &now,
			AuthorID:    admin.ID,
		}
		if err := postRepo.Create(ctx, post); err != nil {
			log.Fatalf("Failed to create post %q: %v", fixture.Title, err)
		}
		created++
	}

	log.Printf("Seed complete: %d posts created, %d already present", created, skipped)

	if err := db.Close(gormDB); err != nil {
		log.Printf("database close: %v", err)
	}
}

// seedAdmin upserts the admin account from environment variables. Reruns
// refresh the name, role and password of an existing account.
func seedAdmin(ctx context.Context, userRepo repository.UserRepository) (*model.User, error) {
	email := getEnv("ADMIN_EMAIL", "admin@techblog.local")
	password := getEnv("ADMIN_PASSWORD", "ChangeMe123!")
	name := getEnv("ADMIN_NAME", "Admin")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Name = name
		existing.Role = model.RoleAdmin
		existing.PasswordHash = string(hashedPassword)
		if err := userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
