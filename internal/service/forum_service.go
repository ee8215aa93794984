package service

import (
	"context"
	"strings"

	"farmiq/internal/keywords"
	"farmiq/internal/middleware"
	"farmiq/internal/models"
	"farmiq/internal/repository"
)

// matchCandidateLimit caps how many prior answered posts the auto-answer
// matcher scores per new question.
const matchCandidateLimit = 10

// matchScoreThreshold is the minimum overlap score for reusing a prior answer.
const matchScoreThreshold = 2

// cannedResponses maps post categories to the fallback auto-answer used when
// no prior post matches well enough.
var cannedResponses = map[string]string{
	"disease":    "Please share a clear photo of the affected plant via the disease-detection tool. Meanwhile, remove visibly infected leaves and avoid overhead watering to slow the spread.",
	"pest":       "Inspect the underside of leaves for eggs and larvae. Neem-oil spray in the evening is a safe first step; if infestation persists, consult a local agri expert from the directory.",
	"irrigation": "Water requirements vary by crop stage and soil type. As a rule, irrigate early morning and check soil moisture at root depth before the next cycle.",
	"fertilizer": "Get a soil test from a nearby lab before applying fertilizer. Balanced NPK based on the test report gives far better results than blanket application.",
	"market":     "Check the live mandi prices section for current rates in your district. Prices are updated from the government open-data feed.",
	"scheme":     "Use the scheme-eligibility checker with your state, landholding and crop to see which government schemes you qualify for.",
}

// cannedDefault is used when the category has no dedicated canned response.
const cannedDefault = "Thanks for your question! A community member or agri expert will respond soon. You can also browse answered posts in your community for similar issues."

type ForumService struct {
	forumRepo repository.ForumRepository
}

type CreatePostInput struct {
	UserID    uint
	Category  string
	Community string
	Question  string
}

type AddReplyInput struct {
	UserID    uint
	Username  string
	PostID    uint
	ReplyText string
}

func NewForumService(forumRepo repository.ForumRepository) *ForumService {
	return &ForumService{forumRepo: forumRepo}
}

// CreatePost stores the question and runs the auto-answer pipeline: the new
// post always leaves this method Answered, either with a reused reply from
// the best-matching prior post or with the category's canned response.
func (s *ForumService) CreatePost(ctx context.Context, in CreatePostInput) (*models.ForumPost, error) {
	in.Question = strings.TrimSpace(in.Question)
	if in.Question == "" {
		return nil, models.NewValidationError("Question is required")
	}
	if len(in.Question) > 5000 {
		return nil, models.NewValidationError("Question too long (max 5000 characters)")
	}
	if in.Community == "" {
		return nil, models.NewValidationError("Community is required")
	}
	if in.Category == "" {
		return nil, models.NewValidationError("Category is required")
	}

	kws := keywords.Extract(in.Question)

	post := &models.ForumPost{
		UserID:            in.UserID,
		Category:          in.Category,
		Community:         in.Community,
		Question:          in.Question,
		ExtractedKeywords: strings.Join(kws, ","),
		Status:            models.PostStatusUnanswered,
	}
	if err := s.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	answer := s.autoAnswer(ctx, post, kws)
	reply := &models.ForumReply{
		PostID:    post.ID,
		ReplyText: answer,
		RepliedBy: models.AutoReplyAuthor,
	}
	if err := s.forumRepo.AddReply(ctx, reply, true); err != nil {
		return nil, err
	}
	post.Status = models.PostStatusAnswered
	post.ReplyCount++
	post.Replies = []models.ForumReply{*reply}

	return post, nil
}

// autoAnswer picks the reply text for a freshly created post. It never fails:
// any error on the matching path degrades to the canned category response.
func (s *ForumService) autoAnswer(ctx context.Context, post *models.ForumPost, kws []string) string {
	best := s.bestMatch(ctx, post, kws)
	if best != nil {
		reply, err := s.forumRepo.TopReply(ctx, best.ID)
		if err == nil && reply != nil {
			return reply.ReplyText
		}
		middleware.Logger.WarnContext(ctx, "auto-answer reply lookup failed, using canned response",
			"post_id", post.ID, "matched_post_id", best.ID, "error", err)
	}
	return cannedResponse(post.Category)
}

// bestMatch scores recent answered posts in the community and returns the
// highest scorer at or above the threshold. Candidates arrive newest first
// and ties keep the first seen.
func (s *ForumService) bestMatch(ctx context.Context, post *models.ForumPost, kws []string) *models.ForumPost {
	if len(kws) == 0 {
		return nil
	}

	candidates, err := s.forumRepo.RecentAnswered(ctx, post.Community, matchCandidateLimit)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "auto-answer candidate fetch failed",
			"community", post.Community, "error", err)
		return nil
	}

	var best *models.ForumPost
	bestScore := 0
	for i := range candidates {
		score := matchScore(kws, keywords.Split(candidates[i].ExtractedKeywords))
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	if bestScore < matchScoreThreshold {
		return nil
	}
	return best
}

// matchScore counts keyword pairs where one side contains the other. This is
// substring containment, not semantic similarity, so short keywords can
// overmatch.
func matchScore(a, b []string) int {
	score := 0
	for _, ka := range a {
		for _, kb := range b {
			if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
				score++
				break
			}
		}
	}
	return score
}

func cannedResponse(category string) string {
	if resp, ok := cannedResponses[strings.ToLower(strings.TrimSpace(category))]; ok {
		return resp
	}
	return cannedDefault
}

func (s *ForumService) GetPost(ctx context.Context, id uint) (*models.ForumPost, error) {
	post, err := s.forumRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	replies, err := s.forumRepo.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Replies = replies
	return post, nil
}

func (s *ForumService) ListPosts(ctx context.Context, community string, limit, offset int) ([]models.ForumPost, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.forumRepo.ListPosts(ctx, community, limit, offset)
}

func (s *ForumService) ListReplies(ctx context.Context, postID uint) ([]models.ForumReply, error) {
	if _, err := s.forumRepo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.forumRepo.ListReplies(ctx, postID)
}

// AddReply records a human reply and marks the post answered.
func (s *ForumService) AddReply(ctx context.Context, in AddReplyInput) (*models.ForumReply, error) {
	in.ReplyText = strings.TrimSpace(in.ReplyText)
	if in.ReplyText == "" {
		return nil, models.NewValidationError("Reply text is required")
	}
	if len(in.ReplyText) > 5000 {
		return nil, models.NewValidationError("Reply too long (max 5000 characters)")
	}

	if _, err := s.forumRepo.GetPost(ctx, in.PostID); err != nil {
		return nil, err
	}

	reply := &models.ForumReply{
		PostID:    in.PostID,
		ReplyText: in.ReplyText,
		RepliedBy: in.Username,
	}
	if err := s.forumRepo.AddReply(ctx, reply, true); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ForumService) Upvote(ctx context.Context, postID uint) error {
	return s.forumRepo.UpvotePost(ctx, postID)
}

func (s *ForumService) RemoveUpvote(ctx context.Context, postID uint) error {
	return s.forumRepo.RemoveUpvote(ctx, postID)
}
