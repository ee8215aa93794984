// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"farmiq/internal/keywords"
	"farmiq/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	state := indianStates[gofakeit.Number(0, len(indianStates)-1)]
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     models.RoleFarmer,
		Phone:    fmt.Sprintf("+91%d", gofakeit.Number(7000000000, 9999999999)),
		State:    state.name,
		District: state.districts[gofakeit.Number(0, len(state.districts)-1)],
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s (%s, %s)", user.Username, user.Role, user.State)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildForumPost constructs a forum post for the given user but does not
// persist it. Useful for batching.
func (f *Factory) BuildForumPost(user *models.User, overrides ...func(*models.ForumPost)) *models.ForumPost {
	q := questionTemplates[gofakeit.Number(0, len(questionTemplates)-1)]
	post := &models.ForumPost{
		UserID:            user.ID,
		Category:          q.category,
		Community:         q.community,
		Question:          q.text,
		ExtractedKeywords: keywords.ExtractJoined(q.text),
		Status:            models.PostStatusUnanswered,
		Upvotes:           gofakeit.Number(0, 40),
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateForumPost constructs and persists a sample `models.ForumPost` for the
// given user.
func (f *Factory) CreateForumPost(user *models.User, overrides ...func(*models.ForumPost)) (*models.ForumPost, error) {
	post := f.BuildForumPost(user, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreateForumPost: community=%s category=%s question=%q", post.Community, post.Category, post.Question)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateReply persists a reply on the provided post and updates the post's
// reply count and status the way the reply flow does.
func (f *Factory) CreateReply(post *models.ForumPost, repliedBy string, overrides ...func(*models.ForumReply)) (*models.ForumReply, error) {
	reply := &models.ForumReply{
		PostID:    post.ID,
		ReplyText: answerTemplates[gofakeit.Number(0, len(answerTemplates)-1)],
		RepliedBy: repliedBy,
		Upvotes:   gofakeit.Number(0, 15),
	}

	for _, override := range overrides {
		override(reply)
	}

	if f.opts.DryRun {
		f.nextID++
		reply.ID = f.nextID
		log.Printf("[dry-run] CreateReply: post=%d by=%s", post.ID, repliedBy)
		return reply, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.ForumPost{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"reply_count": gorm.Expr("reply_count + 1"),
				"status":      models.PostStatusAnswered,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	post.ReplyCount++
	post.Status = models.PostStatusAnswered
	return reply, nil
}

// CreateBooking constructs and persists a sensor booking for the given user.
func (f *Factory) CreateBooking(user *models.User, overrides ...func(*models.SensorBooking)) (*models.SensorBooking, error) {
	sensorTypes := []string{"soil_moisture", "temperature", "humidity", "npk"}
	start := time.Now().AddDate(0, 0, gofakeit.Number(1, 14))
	end := start.AddDate(0, 0, gofakeit.Number(7, 30))

	booking := &models.SensorBooking{
		UserID:     user.ID,
		SensorType: sensorTypes[gofakeit.Number(0, len(sensorTypes)-1)],
		Status:     models.BookingStatusPending,
		StartDate:  &start,
		EndDate:    &end,
	}

	for _, override := range overrides {
		override(booking)
	}

	if f.opts.DryRun {
		f.nextID++
		booking.ID = f.nextID
		log.Printf("[dry-run] CreateBooking: user=%d sensor=%s", booking.UserID, booking.SensorType)
		return booking, nil
	}

	if err := f.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}
