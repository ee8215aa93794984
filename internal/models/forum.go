package models

import "time"

// Forum post statuses.
const (
	PostStatusUnanswered = "Unanswered"
	PostStatusAnswered   = "Answered"
)

// AutoReplyAuthor is the replied_by value for pipeline-generated answers.
const AutoReplyAuthor = "FarmIQ Assistant"

// ForumPost represents a community question. Posts are never deleted in
// normal flows; upvotes and reply_count are mutated in place.
type ForumPost struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	UserID            uint         `gorm:"not null;index" json:"user_id"`
	User              User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category          string       `gorm:"not null" json:"category"`
	Community         string       `gorm:"not null;index" json:"community"`
	Question          string       `gorm:"type:text;not null" json:"question"`
	ExtractedKeywords string       `json:"extracted_keywords"`
	Status            string       `gorm:"not null;default:Unanswered" json:"status"`
	Upvotes           int          `gorm:"not null;default:0" json:"upvotes"`
	ReplyCount        int          `gorm:"not null;default:0" json:"reply_count"`
	Replies           []ForumReply `gorm:"foreignKey:PostID" json:"replies,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// ForumReply belongs to exactly one ForumPost. Rows are created either by a
// human reply or by the auto-answer pipeline at post-creation time.
type ForumReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ReplyText string    `gorm:"type:text;not null" json:"reply_text"`
	RepliedBy string    `gorm:"not null" json:"replied_by"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	CreatedAt time.Time `json:"created_at"`
}
