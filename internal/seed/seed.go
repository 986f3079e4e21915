// Package seed creates demo data for development databases. Not for
// production use.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"parley/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the password every seeded user gets.
const Password = "password123"

var hashtagPool = []string{
	"#go", "#microservices", "#coffee", "#music", "#travel",
	"#food", "#books", "#movies", "#fitness", "#photography",
}

// Seeder populates the database with generated users, discussions, comments
// and likes.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes every seeded row. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"likes", "target_entities", "comments", "discussions", "follows", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Users creates n accounts with the shared demo password.
func (s *Seeder) Users(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, &models.User{
			Name:     gofakeit.Name(),
			Mobile:   fmt.Sprintf("%d%04d", gofakeit.Number(1000000, 9999999), i),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	return users, nil
}

// Follows wires a sparse random follow graph over users.
func (s *Seeder) Follows(users []*models.User) (int, error) {
	created := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID || s.rng.Intn(10) != 0 {
				continue
			}
			follow := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
			if err := s.db.Create(follow).Error; err != nil {
				return created, fmt.Errorf("failed to seed follows: %w", err)
			}
			created++
		}
	}
	return created, nil
}

// Discussions creates n discussions spread over the given users.
func (s *Seeder) Discussions(users []*models.User, n int) ([]*models.Discussion, error) {
	discussions := make([]*models.Discussion, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		d := &models.Discussion{
			Text:     gofakeit.Paragraph(1, 3, 8, " "),
			Hashtags: s.hashtags(),
			UserID:   author.ID,
		}
		if s.rng.Intn(3) == 0 {
			d.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		}
		// spread created_at over the last 90 days
		d.CreatedAt = time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour)
		discussions = append(discussions, d)
	}
	if err := s.db.Create(&discussions).Error; err != nil {
		return nil, fmt.Errorf("failed to seed discussions: %w", err)
	}
	return discussions, nil
}

// Comments creates up to maxPer comments on each discussion.
func (s *Seeder) Comments(users []*models.User, discussions []*models.Discussion, maxPer int) (int, error) {
	created := 0
	for _, d := range discussions {
		for i := 0; i < s.rng.Intn(maxPer+1); i++ {
			commenter := users[s.rng.Intn(len(users))]
			c := &models.Comment{
				Text:         gofakeit.Sentence(s.rng.Intn(12) + 3),
				DiscussionID: d.ID,
				UserID:       commenter.ID,
			}
			if err := s.db.Create(c).Error; err != nil {
				return created, fmt.Errorf("failed to seed comments: %w", err)
			}
			created++
		}
	}
	return created, nil
}

// Likes sprinkles likes over discussions, at most one per user per target.
func (s *Seeder) Likes(users []*models.User, discussions []*models.Discussion) (int, error) {
	created := 0
	for _, d := range discussions {
		target := &models.TargetEntity{Kind: models.TargetDiscussion, TargetID: d.ID}
		if err := s.db.Where(target).FirstOrCreate(target).Error; err != nil {
			return created, fmt.Errorf("failed to seed like targets: %w", err)
		}
		for _, u := range users {
			if s.rng.Intn(4) != 0 {
				continue
			}
			like := &models.Like{TargetEntityID: target.ID, UserID: u.ID}
			if err := s.db.Create(like).Error; err != nil {
				return created, fmt.Errorf("failed to seed likes: %w", err)
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) hashtags() string {
	n := s.rng.Intn(3) + 1
	picked := make([]string, 0, n)
	for _, i := range s.rng.Perm(len(hashtagPool))[:n] {
		picked = append(picked, hashtagPool[i])
	}
	return strings.Join(picked, ",")
}
