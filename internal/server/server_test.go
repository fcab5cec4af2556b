package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smakosz/internal/config"
	"smakosz/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Publication{},
		&models.Post{},
		&models.Product{},
		&models.Comment{},
		&models.Like{},
		&models.ShoppingUser{},
	))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Port:                "0",
		JWTSecret:           "test-secret-which-is-long-enough",
		Env:                 "test",
		CartSessionTTLHours: 336,
	}

	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func createTestUser(t *testing.T, srv *Server, username string, staff bool) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		IsStaff:  staff,
	}
	require.NoError(t, srv.db.Create(user).Error)

	token, err := srv.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func createTestProduct(t *testing.T, srv *Server, name, slug string, price float64) *models.Product {
	t.Helper()

	pub := &models.Publication{}
	require.NoError(t, srv.db.Create(pub).Error)
	product := &models.Product{
		Name: name, Slug: slug, Price: price, Available: true, PublicationID: &pub.ID,
	}
	require.NoError(t, srv.db.Create(product).Error)
	return product
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

func TestSignupAndLogin(t *testing.T) {
	_, app := newTestServer(t)

	signup := jsonRequest(http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": "kasia",
		"email":    "kasia@example.com",
		"password": "Str0ng!Passw0rd",
	})
	resp, err := app.Test(signup, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "kasia", created.User.Username)

	login := jsonRequest(http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "kasia@example.com",
		"password": "Str0ng!Passw0rd",
	})
	resp, err = app.Test(login, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	badLogin := jsonRequest(http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "kasia@example.com",
		"password": "wrong",
	})
	resp, err = app.Test(badLogin, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateCommentAsGuest(t *testing.T) {
	srv, app := newTestServer(t)
	product := createTestProduct(t, srv, "Miód", "miod", 20)

	req := jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/publications/%d/comments", *product.PublicationID),
		fiber.Map{"body": "Pyszny miód!", "guest_name": "Marek"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "Marek", comment.UnloggedUser)
	assert.False(t, comment.Active)

	// Pending comments stay out of the public thread.
	listReq := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/publications/%d/comments", *product.PublicationID), nil)
	resp, err = app.Test(listReq, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Comments []models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &listing)
	assert.Empty(t, listing.Comments)
}

func TestCreateCommentAsStaffIsPublished(t *testing.T) {
	srv, app := newTestServer(t)
	product := createTestProduct(t, srv, "Miód", "miod", 20)
	_, token := createTestUser(t, srv, "redakcja", true)

	req := jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/publications/%d/comments", *product.PublicationID),
		fiber.Map{"body": "Dziękujemy za opinię"})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.True(t, comment.Active)
	assert.Equal(t, "redakcja@example.com", comment.Email)
}

func TestCreateReplyCrossPublicationFails(t *testing.T) {
	srv, app := newTestServer(t)
	first := createTestProduct(t, srv, "Miód", "miod", 20)
	second := createTestProduct(t, srv, "Sok", "sok", 10)

	req := jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/publications/%d/comments", *first.PublicationID),
		fiber.Map{"body": "root"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var root models.Comment
	decodeBody(t, resp, &root)

	req = jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/publications/%d/comments", *second.PublicationID),
		fiber.Map{"body": "reply", "response_to_id": root.ID})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t,
		"response_to and publication must be associated with the same publication",
		errResp.Error)
}

func TestApproveComment(t *testing.T) {
	srv, app := newTestServer(t)
	product := createTestProduct(t, srv, "Miód", "miod", 20)
	_, userToken := createTestUser(t, srv, "kasia", false)
	_, staffToken := createTestUser(t, srv, "redakcja", true)

	comment := &models.Comment{
		PublicationID: *product.PublicationID, Body: "pending", Level: 1,
		UnloggedUser: "Marek",
	}
	require.NoError(t, srv.db.Create(comment).Error)

	req := jsonRequest(http.MethodPost, fmt.Sprintf("/api/comments/%d/approve", comment.ID), nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = jsonRequest(http.MethodPost, fmt.Sprintf("/api/comments/%d/approve", comment.ID), nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var approved models.Comment
	decodeBody(t, resp, &approved)
	assert.True(t, approved.Active)
}

func TestRecentCommentsUnknownKind(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/comments/recent?type=recipe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Comments []models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &listing)
	assert.Empty(t, listing.Comments)
}
