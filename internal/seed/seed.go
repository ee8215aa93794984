// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"farmiq/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	DryRun      bool
	MaxDays     int
}

type stateEntry struct {
	name      string
	districts []string
}

var (
	indianStates = []stateEntry{
		{"Maharashtra", []string{"Pune", "Nashik", "Nagpur", "Aurangabad", "Kolhapur"}},
		{"Punjab", []string{"Ludhiana", "Amritsar", "Patiala", "Bathinda"}},
		{"Karnataka", []string{"Belgaum", "Mysore", "Hubli", "Mandya"}},
		{"Gujarat", []string{"Rajkot", "Surat", "Vadodara", "Junagadh"}},
		{"Uttar Pradesh", []string{"Lucknow", "Kanpur", "Meerut", "Varanasi"}},
		{"Tamil Nadu", []string{"Coimbatore", "Madurai", "Thanjavur", "Salem"}},
		{"Madhya Pradesh", []string{"Indore", "Bhopal", "Jabalpur", "Ujjain"}},
	}

	questionTemplates = []struct {
		community string
		category  string
		text      string
	}{
		{"wheat", "disease", "Yellow rust spots appearing on wheat leaves after recent rains, which fungicide spray works best?"},
		{"wheat", "fertilizer", "What is the right urea dose per acre for wheat at tillering stage?"},
		{"wheat", "irrigation", "How many irrigations does late sown wheat need in sandy loam soil?"},
		{"cotton", "pest", "Pink bollworm attack on cotton bolls, traps are full, what control measures should I take?"},
		{"cotton", "disease", "Cotton leaves curling and turning red from the edges, is this leaf curl virus?"},
		{"cotton", "market", "Cotton prices in my mandi are very low this week, should I hold my produce?"},
		{"paddy", "disease", "Brown spots with yellow halo on paddy leaves, neighbours say it is blast disease?"},
		{"paddy", "pest", "Stem borer dead hearts visible in my paddy field, what pesticide is recommended?"},
		{"paddy", "irrigation", "How much standing water should I maintain in paddy during flowering?"},
		{"sugarcane", "pest", "White grubs eating sugarcane roots, plants wilting in patches, how to treat soil?"},
		{"sugarcane", "scheme", "Is there any subsidy scheme for drip irrigation in sugarcane?"},
		{"tomato", "disease", "Tomato plants wilting suddenly with brown rings on fruit, what disease is this?"},
		{"tomato", "market", "Where can I get better tomato prices near Nashik, local rates crashed?"},
		{"soybean", "fertilizer", "Which micronutrient spray improves soybean pod filling?"},
		{"soybean", "scheme", "Which government scheme covers soybean crop insurance premium?"},
		{"maize", "pest", "Fall armyworm larvae found in maize whorls, what is the spray schedule?"},
	}

	answerTemplates = []string{
		"Spray propiconazole 25 EC at 1 ml per litre of water early morning, repeat after 15 days if spots persist. Avoid spraying before expected rain.",
		"Apply the recommended dose in two splits, half at sowing and half at first irrigation. Soil test first if you have not done one this season.",
		"Install pheromone traps at 5 per acre and spray neem oil 5 ml per litre in the evening. If infestation crosses threshold, use the recommended insecticide.",
		"This looks like a fungal infection spread by recent humidity. Remove affected plants, improve drainage, and apply a copper based fungicide.",
		"Check the nearest regulated mandi rates before selling, prices usually improve two weeks after peak arrival. Storage is worth it only if moisture is below 12 percent.",
		"Visit your local agriculture office with land records, the application window is usually open until the end of the season. Online registration is also available.",
		"Maintain 2 to 3 cm of standing water and drain the field a week before harvest. Over flooding at this stage reduces grain filling.",
		"Mix well rotted farmyard manure before the next irrigation and treat the soil with a recommended biopesticide. Chemical drenching is a last resort.",
	}
)

// Seeder seeds the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	s := NewSeeder(db, opts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := LoadFixtures(db); err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	log.Println("✓ Reference fixtures loaded (schemes, labs, experts, crops)")

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := s.SeedForum(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create forum posts: %w", err)
	}
	log.Printf("✓ %d forum posts created", len(posts))

	bookings, err := s.SeedBookings(users)
	if err != nil {
		return fmt.Errorf("failed to create bookings: %w", err)
	}
	log.Printf("✓ %d sensor bookings created", len(bookings))

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll truncates every seeded table. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE forum_replies, forum_posts, sensor_bookings, schemes, labs, experts, crops, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedUsers creates count users. A few well-known accounts are always
// included first so dev logins stay stable across reseeds.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	baseUsers := []struct {
		username string
		role     string
		state    string
	}{
		{"ramesh_kumar", models.RoleFarmer, "Maharashtra"},
		{"agro_supplies", models.RoleVendor, "Punjab"},
		{"farmiq_admin", models.RoleAdmin, "Karnataka"},
	}
	if count >= len(baseUsers) {
		for _, b := range baseUsers {
			b := b
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = b.username
				u.Email = fmt.Sprintf("%s@example.com", b.username)
				u.Role = b.role
				u.State = b.state
			})
			if err != nil {
				log.Printf("Failed to create base user %s: %v", b.username, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser(func(u *models.User) {
			// Ensure uniqueness roughly
			u.Username = fmt.Sprintf("%s%d", u.Username, i)
			u.Email = fmt.Sprintf("%s@example.com", u.Username)
		})
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// SeedForum creates count forum posts across the seeded users. Roughly
// two thirds of the posts get an answer so the matching pipeline has prior
// material to reuse.
func (s *Seeder) SeedForum(users []*models.User, count int) ([]*models.ForumPost, error) {
	if len(users) == 0 {
		return nil, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.ForumPost, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		post, err := s.factory.CreateForumPost(user)
		if err != nil {
			return nil, err
		}

		if r.Float32() < 0.65 {
			repliedBy := models.AutoReplyAuthor
			if r.Float32() < 0.5 {
				repliedBy = users[r.Intn(len(users))].Username
			}
			if _, err := s.factory.CreateReply(post, repliedBy); err != nil {
				return nil, err
			}
		}
		posts = append(posts, post)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

// SeedBookings gives roughly a third of the users a sensor booking, a few of
// them activated with a demo channel.
func (s *Seeder) SeedBookings(users []*models.User) ([]*models.SensorBooking, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	bookings := make([]*models.SensorBooking, 0, len(users)/3)

	for i, user := range users {
		if i%3 != 0 {
			continue
		}
		booking, err := s.factory.CreateBooking(user, func(b *models.SensorBooking) {
			if r.Float32() < 0.4 {
				b.Status = models.BookingStatusActive
				b.ChannelID = fmt.Sprintf("%d", 2000000+r.Intn(100000))
			}
		})
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}
