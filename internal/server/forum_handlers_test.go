package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"farmiq/internal/config"
	"farmiq/internal/models"
	"farmiq/internal/repository"
	"farmiq/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer wires a Server against an in-memory database with routes
// registered, returning a seeded farmer's bearer token.
func setupTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ForumPost{},
		&models.ForumReply{},
		&models.Scheme{},
		&models.Lab{},
		&models.Expert{},
		&models.Crop{},
		&models.SensorBooking{},
	))

	cfg := &config.Config{
		JWTSecret:   "test_secret",
		MaxPageSize: 100,
	}

	userRepo := repository.NewUserRepository(db)
	forumRepo := repository.NewForumRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	s := &Server{
		config:        cfg,
		db:            db,
		userRepo:      userRepo,
		forumRepo:     forumRepo,
		schemeRepo:    schemeRepo,
		directoryRepo: directoryRepo,
		bookingRepo:   bookingRepo,
	}
	s.userService = service.NewUserService(userRepo)
	s.forumService = service.NewForumService(forumRepo)
	s.schemeService = service.NewSchemeService(schemeRepo)
	s.iotService = service.NewIoTService(bookingRepo, nil, nil)

	app := fiber.New()
	s.SetupRoutes(app)

	user := &models.User{
		Username: "ramesh_kumar",
		Email:    "ramesh@example.com",
		Password: "irrelevant",
		Role:     models.RoleFarmer,
		State:    "Maharashtra",
	}
	require.NoError(t, db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username, user.Role)
	require.NoError(t, err)

	return app, s, db, token
}

func authedJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateForumPost_AutoAnswered(t *testing.T) {
	app, _, _, token := setupTestServer(t)

	resp := authedJSON(t, app, http.MethodPost, "/api/forum/posts", token, map[string]string{
		"category":  "pest",
		"community": "cotton",
		"question":  "How to control pest attack on cotton crop?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Post models.ForumPost `json:"post"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, models.PostStatusAnswered, body.Post.Status)
	assert.Equal(t, 1, body.Post.ReplyCount)
	assert.NotEmpty(t, body.Post.ExtractedKeywords)
	require.Len(t, body.Post.Replies, 1)
	assert.Equal(t, models.AutoReplyAuthor, body.Post.Replies[0].RepliedBy)
}

func TestCreateForumPost_RequiresAuth(t *testing.T) {
	app, _, _, _ := setupTestServer(t)

	resp := authedJSON(t, app, http.MethodPost, "/api/forum/posts", "", map[string]string{
		"category":  "pest",
		"community": "cotton",
		"question":  "anyone home?",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetForumPosts_FiltersByCommunity(t *testing.T) {
	app, _, db, _ := setupTestServer(t)

	for _, community := range []string{"cotton", "cotton", "wheat"} {
		require.NoError(t, db.Create(&models.ForumPost{
			UserID:    1,
			Category:  "pest",
			Community: community,
			Question:  "q",
			Status:    models.PostStatusUnanswered,
		}).Error)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/forum/posts?community=cotton", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.ForumPost `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Posts, 2)
}

func TestForumUpvoteRoundTrip(t *testing.T) {
	app, _, db, token := setupTestServer(t)

	post := &models.ForumPost{
		UserID:    1,
		Category:  "pest",
		Community: "cotton",
		Question:  "q",
		Status:    models.PostStatusUnanswered,
	}
	require.NoError(t, db.Create(post).Error)

	resp := authedJSON(t, app, http.MethodPost, "/api/forum/posts/1/upvote", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.ForumPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, 1, stored.Upvotes)

	resp = authedJSON(t, app, http.MethodDelete, "/api/forum/posts/1/upvote", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A second removal must not push the counter below zero.
	resp = authedJSON(t, app, http.MethodDelete, "/api/forum/posts/1/upvote", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, 0, stored.Upvotes)
}

func TestCreateForumReply(t *testing.T) {
	app, _, db, token := setupTestServer(t)

	post := &models.ForumPost{
		UserID:    1,
		Category:  "pest",
		Community: "cotton",
		Question:  "q",
		Status:    models.PostStatusUnanswered,
	}
	require.NoError(t, db.Create(post).Error)

	resp := authedJSON(t, app, http.MethodPost, "/api/forum/posts/1/replies", token, map[string]string{
		"reply_text": "Try pheromone traps first.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stored models.ForumPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, models.PostStatusAnswered, stored.Status)
	assert.Equal(t, 1, stored.ReplyCount)
}

func TestGetForumPost_NotFound(t *testing.T) {
	app, _, _, _ := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/forum/posts/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
