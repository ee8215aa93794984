// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"farmiq/internal/models"
	"farmiq/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetForumPosts handles GET /api/forum/posts?community=&limit=&offset=
func (s *Server) GetForumPosts(c *fiber.Ctx) error {
	p := s.parsePagination(c, 20)
	community := c.Query("community")

	posts, err := s.forumService.ListPosts(c.Context(), community, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetForumPost handles GET /api/forum/posts/:id
func (s *Server) GetForumPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.forumService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// CreateForumPost handles POST /api/forum/posts. Every created post comes
// back answered: the auto-answer pipeline runs inline.
func (s *Server) CreateForumPost(c *fiber.Ctx) error {
	var req struct {
		Category  string `json:"category"`
		Community string `json:"community"`
		Question  string `json:"question"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.forumService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    currentUserID(c),
		Category:  req.Category,
		Community: req.Community,
		Question:  req.Question,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// GetForumReplies handles GET /api/forum/posts/:id/replies
func (s *Server) GetForumReplies(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.forumService.ListReplies(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"replies": replies})
}

// CreateForumReply handles POST /api/forum/posts/:id/replies
func (s *Server) CreateForumReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		ReplyText string `json:"reply_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	reply, err := s.forumService.AddReply(c.Context(), service.AddReplyInput{
		UserID:    userID,
		Username:  user.Username,
		PostID:    id,
		ReplyText: req.ReplyText,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reply": reply})
}

// UpvoteForumPost handles POST /api/forum/posts/:id/upvote
func (s *Server) UpvoteForumPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.forumService.Upvote(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Upvoted"})
}

// RemoveForumUpvote handles DELETE /api/forum/posts/:id/upvote
func (s *Server) RemoveForumUpvote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.forumService.RemoveUpvote(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Upvote removed"})
}
