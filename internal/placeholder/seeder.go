package placeholder

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sokrith/blogmesh-core/internal/posts"
	"github.com/sokrith/blogmesh-core/internal/users"
)

const seedBatchSize = 10

// Seeder populates the post store from the placeholder API when it is empty.
type Seeder struct {
	db     *gorm.DB
	client *Client
}

func NewSeeder(db *gorm.DB, client *Client) *Seeder {
	return &Seeder{db: db, client: client}
}

// Seed is a no-op when posts already exist. Imported posts need an owner, so
// a system user is created for them on first run.
func (s *Seeder) Seed() error {
	var count int64
	if err := s.db.Model(&posts.Post{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if count > 0 {
		log.Println("data already exists, skipping population")
		return nil
	}

	fetched, err := s.client.FetchPosts(0, seedBatchSize)
	if err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}

	owner, err := s.ensureSeedUser()
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	rows := make([]posts.Post, 0, len(fetched))
	for _, p := range fetched {
		rows = append(rows, posts.Post{
			Title:       p.Title,
			Body:        p.Body,
			CreatedByID: owner.ID,
		})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert posts: %w", err)
	}

	log.Printf("initial data populated: %d posts", len(rows))
	return nil
}

// ensureSeedUser finds or creates the system account that owns imported
// posts. Its password is a hash of random bytes, so nobody can log in as it.
func (s *Seeder) ensureSeedUser() (*users.User, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("random password: %w", err)
	}
	hashed, err := users.HashPassword(hex.EncodeToString(raw))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := users.User{
		Email:    "seeder@blogmesh.local",
		Name:     "seeder",
		Number:   "0000000000",
		Password: hashed,
	}
	if err := s.db.Where(users.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
