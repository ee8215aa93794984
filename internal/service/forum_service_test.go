package service

import (
	"context"
	"errors"
	"testing"

	"farmiq/internal/models"
	"farmiq/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupForumDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ForumPost{}, &models.ForumReply{}))
	return db
}

func seedAnsweredPost(t *testing.T, db *gorm.DB, community, question, kws, replyText string) *models.ForumPost {
	t.Helper()
	post := &models.ForumPost{
		UserID:            1,
		Category:          "pest",
		Community:         community,
		Question:          question,
		ExtractedKeywords: kws,
		Status:            models.PostStatusAnswered,
		ReplyCount:        1,
	}
	require.NoError(t, db.Create(post).Error)
	require.NoError(t, db.Create(&models.ForumReply{
		PostID:    post.ID,
		ReplyText: replyText,
		RepliedBy: "agronomist_anita",
	}).Error)
	return post
}

func TestForumService_CreatePost_ReusesMatchingAnswer(t *testing.T) {
	db := setupForumDB(t)
	svc := NewForumService(repository.NewForumRepository(db))
	ctx := context.Background()

	seedAnsweredPost(t, db, "cotton",
		"How to control pest attack on cotton crop?",
		"control,pest,attack,cotton,crop",
		"Spray neem oil in the evening and remove affected bolls.")

	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    2,
		Category:  "pest",
		Community: "cotton",
		Question:  "Severe pest attack destroying my cotton, what to do?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusAnswered, post.Status)
	assert.Equal(t, 1, post.ReplyCount)
	require.Len(t, post.Replies, 1)
	assert.Equal(t, models.AutoReplyAuthor, post.Replies[0].RepliedBy)
	assert.Equal(t, "Spray neem oil in the evening and remove affected bolls.", post.Replies[0].ReplyText)
}

func TestForumService_CreatePost_FallsBackToCannedResponse(t *testing.T) {
	db := setupForumDB(t)
	svc := NewForumService(repository.NewForumRepository(db))
	ctx := context.Background()

	// One shared keyword is below the match threshold.
	seedAnsweredPost(t, db, "wheat",
		"Best irrigation schedule for wheat?",
		"irrigation,schedule,wheat",
		"Irrigate at crown root initiation and flowering stages.")

	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    2,
		Category:  "pest",
		Community: "wheat",
		Question:  "Aphids all over my wheat spikes",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusAnswered, post.Status)
	require.Len(t, post.Replies, 1)
	assert.Equal(t, cannedResponses["pest"], post.Replies[0].ReplyText)
}

func TestForumService_CreatePost_UnknownCategoryUsesDefault(t *testing.T) {
	db := setupForumDB(t)
	svc := NewForumService(repository.NewForumRepository(db))

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:    2,
		Category:  "weather",
		Community: "paddy",
		Question:  "Will early monsoon affect transplanting?",
	})
	require.NoError(t, err)
	require.Len(t, post.Replies, 1)
	assert.Equal(t, cannedDefault, post.Replies[0].ReplyText)
}

func TestForumService_CreatePost_IgnoresOtherCommunities(t *testing.T) {
	db := setupForumDB(t)
	svc := NewForumService(repository.NewForumRepository(db))

	seedAnsweredPost(t, db, "cotton",
		"How to control pest attack on cotton crop?",
		"control,pest,attack,cotton,crop",
		"Spray neem oil in the evening.")

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:    2,
		Category:  "pest",
		Community: "sugarcane",
		Question:  "Pest attack on my crop, need control measures",
	})
	require.NoError(t, err)
	require.Len(t, post.Replies, 1)
	assert.Equal(t, cannedResponses["pest"], post.Replies[0].ReplyText)
}

func TestForumService_CreatePost_Validation(t *testing.T) {
	db := setupForumDB(t)
	svc := NewForumService(repository.NewForumRepository(db))
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"empty question", CreatePostInput{UserID: 1, Category: "pest", Community: "cotton"}},
		{"whitespace question", CreatePostInput{UserID: 1, Category: "pest", Community: "cotton", Question: "   "}},
		{"missing community", CreatePostInput{UserID: 1, Category: "pest", Question: "pests everywhere"}},
		{"missing category", CreatePostInput{UserID: 1, Community: "cotton", Question: "pests everywhere"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestForumService_AddReply_MarksAnswered(t *testing.T) {
	db := setupForumDB(t)
	repo := repository.NewForumRepository(db)
	svc := NewForumService(repo)
	ctx := context.Background()

	post := &models.ForumPost{
		UserID:    1,
		Category:  "pest",
		Community: "cotton",
		Question:  "pests",
		Status:    models.PostStatusUnanswered,
	}
	require.NoError(t, db.Create(post).Error)

	reply, err := svc.AddReply(ctx, AddReplyInput{
		UserID:    3,
		Username:  "agronomist_anita",
		PostID:    post.ID,
		ReplyText: "Try pheromone traps first.",
	})
	require.NoError(t, err)
	assert.Equal(t, "agronomist_anita", reply.RepliedBy)

	var stored models.ForumPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, models.PostStatusAnswered, stored.Status)
	assert.Equal(t, 1, stored.ReplyCount)
}

func TestForumService_AddReply_PostMissing(t *testing.T) {
	db := setupForumDB(t)
	svc := NewForumService(repository.NewForumRepository(db))

	_, err := svc.AddReply(context.Background(), AddReplyInput{
		UserID:    3,
		Username:  "anyone",
		PostID:    404,
		ReplyText: "hello",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"exact overlap", []string{"pest", "cotton"}, []string{"pest", "cotton"}, 2},
		{"substring containment", []string{"pests", "cotton"}, []string{"pest", "cotton"}, 2},
		{"no overlap", []string{"wheat", "rust"}, []string{"paddy", "blast"}, 0},
		{"one shared", []string{"pest", "wheat"}, []string{"pest", "cotton"}, 1},
		{"empty sides", nil, []string{"pest"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchScore(tt.a, tt.b))
		})
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
