// Command seed fills a development database with a demo account and a batch
// of draft and published posts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/smartblog/internal/model"
	"github.com/d60-Lab/smartblog/internal/repository"
)

func main() {
	dsn := flag.String("dsn", "smartblog.db", "sqlite database path")
	email := flag.String("email", "demo@example.com", "demo account email")
	password := flag.String("password", "password123", "demo account password")
	posts := flag.Int("posts", 20, "number of posts to create")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u, err := users.Create(ctx, *email, string(hash), "Demo Author")
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	for i := 0; i < *posts; i++ {
		title := fmt.Sprintf("Draft %d", i)
		flat := fmt.Sprintf("Body of post %d", i)
		p, err := postRepo.Create(ctx, u.ID, title, model.PostContent{
			Structured: map[string]any{"type": "paragraph", "text": flat},
			Flat:       flat,
		})
		if err != nil {
			log.Fatalf("create post: %v", err)
		}
		if i%3 == 0 {
			if _, err := postRepo.SetStatus(ctx, p.ID, model.StatusPublished); err != nil {
				log.Fatalf("publish post: %v", err)
			}
		}
	}
	log.Printf("seeded %s with %d posts (login %s)", *dsn, *posts, *email)
}
