package repository

import (
	"context"
	"errors"

	"farmiq/internal/models"

	"gorm.io/gorm"
)

// ForumRepository defines persistence operations for forum posts and replies.
type ForumRepository interface {
	CreatePost(ctx context.Context, post *models.ForumPost) error
	GetPost(ctx context.Context, id uint) (*models.ForumPost, error)
	ListPosts(ctx context.Context, community string, limit, offset int) ([]models.ForumPost, error)
	RecentAnswered(ctx context.Context, community string, limit int) ([]models.ForumPost, error)
	ListReplies(ctx context.Context, postID uint) ([]models.ForumReply, error)
	TopReply(ctx context.Context, postID uint) (*models.ForumReply, error)
	AddReply(ctx context.Context, reply *models.ForumReply, markAnswered bool) error
	UpvotePost(ctx context.Context, id uint) error
	RemoveUpvote(ctx context.Context, id uint) error
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository returns a new ForumRepository implementation.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) GetPost(ctx context.Context, id uint) (*models.ForumPost, error) {
	var post models.ForumPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *forumRepository) ListPosts(ctx context.Context, community string, limit, offset int) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if community != "" {
		q = q.Where("community = ?", community)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// RecentAnswered returns the most recent answered posts in a community,
// newest first. This is the candidate set the auto-answer matcher scores.
func (r *forumRepository) RecentAnswered(ctx context.Context, community string, limit int) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := r.db.WithContext(ctx).
		Where("community = ? AND status = ?", community, models.PostStatusAnswered).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *forumRepository) ListReplies(ctx context.Context, postID uint) ([]models.ForumReply, error) {
	var replies []models.ForumReply
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("upvotes DESC, created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

// TopReply returns the best reply of a post: most upvotes, earliest on ties.
func (r *forumRepository) TopReply(ctx context.Context, postID uint) (*models.ForumReply, error) {
	var reply models.ForumReply
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("upvotes DESC, created_at ASC").
		First(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply for post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &reply, nil
}

// AddReply inserts the reply, increments the post's reply_count and, when
// markAnswered is set, flips the post status, all in one transaction so the
// counter cannot drift from the reply rows.
func (r *forumRepository) AddReply(ctx context.Context, reply *models.ForumReply, markAnswered bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"reply_count": gorm.Expr("reply_count + 1"),
		}
		if markAnswered {
			updates["status"] = models.PostStatusAnswered
		}

		res := tx.Model(&models.ForumPost{}).Where("id = ?", reply.PostID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", reply.PostID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) UpvotePost(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.ForumPost{}).
		Where("id = ?", id).
		Update("upvotes", gorm.Expr("upvotes + 1"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// RemoveUpvote decrements the counter but never below zero.
func (r *forumRepository) RemoveUpvote(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.ForumPost{}).
		Where("id = ?", id).
		Update("upvotes", gorm.Expr("CASE WHEN upvotes > 0 THEN upvotes - 1 ELSE 0 END"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
