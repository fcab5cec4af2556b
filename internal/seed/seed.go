package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"smakosz/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumProducts int
	ShouldClean bool
	FixturePath string
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rnd     *rand.Rand
}

// NewSeeder creates a Seeder over the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table. Child tables go first so foreign keys
// never block the delete.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Like{},
		&models.Comment{},
		&models.ShoppingUser{},
		&models.Post{},
		&models.Product{},
		&models.Publication{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run seeds users, reviews, products and their comment threads.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	staff, err := s.factory.CreateStaff(func(u *models.User) {
		u.Username = "redakcja"
		u.Email = "redakcja@smakosz.dev"
	})
	if err != nil {
		return fmt.Errorf("seed staff user: %w", err)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	if opts.FixturePath != "" {
		if err := LoadProductFixtures(s.db, opts.FixturePath); err != nil {
			return err
		}
	}

	for i := 0; i < opts.NumProducts; i++ {
		product, err := s.factory.CreateProduct()
		if err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
		if product.PublicationID != nil {
			if err := s.seedThread(*product.PublicationID, users); err != nil {
				return err
			}
		}
	}

	for i := 0; i < opts.NumPosts; i++ {
		post, err := s.factory.CreatePost(staff)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		if post.PublicationID != nil {
			if err := s.seedThread(*post.PublicationID, users); err != nil {
				return err
			}
		}
		if err := s.seedLikes(post, users); err != nil {
			return err
		}
	}

	log.Printf("seeded %d users, %d posts, %d products", len(users)+1, opts.NumPosts, opts.NumProducts)
	return nil
}

// seedThread builds a small comment tree: a few top-level comments, each
// with a chance of nested replies.
func (s *Seeder) seedThread(publicationID uint, users []*models.User) error {
	topLevel := s.rnd.Intn(5)
	for i := 0; i < topLevel; i++ {
		parent, err := s.factory.CreateComment(publicationID, s.maybeUser(users), nil)
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}

		for parent.Level < models.CommentMaxLevel && s.rnd.Intn(3) == 0 {
			reply, err := s.factory.CreateComment(publicationID, s.maybeUser(users), parent)
			if err != nil {
				return fmt.Errorf("seed reply: %w", err)
			}
			parent = reply
		}
	}
	return nil
}

func (s *Seeder) seedLikes(post *models.Post, users []*models.User) error {
	for _, user := range users {
		if s.rnd.Intn(4) != 0 {
			continue
		}
		like := models.Like{UserID: user.ID, PostID: post.ID}
		if err := s.db.Create(&like).Error; err != nil {
			return fmt.Errorf("seed like: %w", err)
		}
	}
	return nil
}

// maybeUser picks a random seeded user or nil for a guest author.
func (s *Seeder) maybeUser(users []*models.User) *models.User {
	if len(users) == 0 || s.rnd.Intn(3) == 0 {
		return nil
	}
	return users[s.rnd.Intn(len(users))]
}
