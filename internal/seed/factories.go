// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"smakosz/internal/models"
	"smakosz/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123" so local logins are painless.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStaff persists a user with moderation rights.
func (f *Factory) CreateStaff(overrides ...func(*models.User)) (*models.User, error) {
	base := func(u *models.User) { u.IsStaff = true }
	return f.CreateUser(append([]func(*models.User){base}, overrides...)...)
}

// CreatePost persists a review post with a fresh publication attached,
// spread over the last 90 days for a believable timeline.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	pub := &models.Publication{}
	if err := f.db.Create(pub).Error; err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(gofakeit.Sentence(5), ".")
	post := &models.Post{
		Title:         title,
		Slug:          fmt.Sprintf("%s-%d", slug.Make(title), gofakeit.Number(100, 9999)),
		Body:          gofakeit.Paragraph(2, 4, 8, "\n\n"),
		ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		AuthorID:      author.ID,
		PublicationID: &pub.ID,
		CreatedAt:     f.pastTime(90),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateProduct persists a catalog entry with a fresh publication attached.
func (f *Factory) CreateProduct(overrides ...func(*models.Product)) (*models.Product, error) {
	pub := &models.Publication{}
	if err := f.db.Create(pub).Error; err != nil {
		return nil, err
	}

	name := gofakeit.ProductName()
	product := &models.Product{
		Name:          name,
		Slug:          fmt.Sprintf("%s-%d", slug.Make(name), gofakeit.Number(100, 9999)),
		Description:   gofakeit.ProductDescription(),
		Price:         float64(gofakeit.Price(5, 200)),
		ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/600/600", gofakeit.UUID()),
		Available:     true,
		PublicationID: &pub.ID,
	}

	for _, override := range overrides {
		override(product)
	}

	if err := f.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreateComment persists a comment under the publication. A nil author makes
// a guest comment pending moderation; parent may be nil for a top-level one.
func (f *Factory) CreateComment(publicationID uint, author *models.User, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PublicationID: publicationID,
		Body:          gofakeit.Sentence(12),
		Level:         models.CommentMinLevel,
		CreatedAt:     f.pastTime(30),
	}

	if parent != nil {
		comment.ResponseToID = &parent.ID
		comment.Level = parent.Level + 1
	}

	if author != nil {
		comment.LoggedUserID = &author.ID
		comment.Email = author.Email
		comment.Active = author.CanModerate()
	} else {
		comment.UnloggedUser = gofakeit.FirstName()
		comment.Email = gofakeit.Email()
		// Most guest comments in the demo set are already through moderation.
		comment.Active = f.rnd.Intn(4) != 0
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) pastTime(maxDays int) time.Time {
	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
