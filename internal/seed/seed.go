// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"cvhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password given to every seeded user.
const DefaultPassword = "Password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	CVsPerUser  int
	NumRecs     int
	ShouldClean bool
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll removes all seeded data. Order matters: recommendations reference
// CVs, CVs reference users.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Recommendation{},
		&models.CV{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed populates the database with test data
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users, %d CVs each, %d recommendations...",
		opts.NumUsers, opts.CVsPerUser, opts.NumRecs)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	cvs, err := s.CreateCVs(users, opts.CVsPerUser)
	if err != nil {
		return fmt.Errorf("failed to create CVs: %w", err)
	}
	log.Printf("✓ %d CVs created", len(cvs))

	recs, err := s.CreateRecommendations(users, cvs, opts.NumRecs)
	if err != nil {
		return fmt.Errorf("failed to create recommendations: %w", err)
	}
	log.Printf("✓ %d recommendations created", len(recs))

	return nil
}

// CreateUsers persists n sample users sharing DefaultPassword.
func (s *Seeder) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Firstname: gofakeit.FirstName(),
			Lastname:  gofakeit.LastName(),
			Email:     gofakeit.Email(),
			Password:  string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreateCVs persists perUser CVs for each user, roughly one in four private.
func (s *Seeder) CreateCVs(users []*models.User, perUser int) ([]*models.CV, error) {
	cvs := make([]*models.CV, 0, len(users)*perUser)
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			cv := s.buildCV(user)
			if err := s.db.Create(cv).Error; err != nil {
				return nil, err
			}
			cvs = append(cvs, cv)
		}
	}
	return cvs, nil
}

func (s *Seeder) buildCV(owner *models.User) *models.CV {
	visibility := models.VisibilityPublic
	if rand.Intn(4) == 0 {
		visibility = models.VisibilityPrivate
	}

	skills := make([]string, 0, 5)
	for i := 0; i < 3+rand.Intn(3); i++ {
		skills = append(skills, gofakeit.ProgrammingLanguage())
	}

	experiences := make([]models.Experience, 0, 3)
	for i := 0; i < 1+rand.Intn(3); i++ {
		start := gofakeit.DateRange(
			time.Now().AddDate(-10, 0, 0), time.Now().AddDate(-1, 0, 0))
		end := start.AddDate(1+rand.Intn(3), 0, 0)
		experiences = append(experiences, models.Experience{
			Company:     gofakeit.Company(),
			Position:    gofakeit.JobTitle(),
			Description: gofakeit.Sentence(12),
			StartDate:   start.Format("2006-01-02"),
			EndDate:     end.Format("2006-01-02"),
		})
	}

	education := []models.Education{
		{
			School:    fmt.Sprintf("%s University", gofakeit.City()),
			Degree:    fmt.Sprintf("BSc %s", gofakeit.HackerNoun()),
			StartDate: "2012-09-01",
			EndDate:   "2016-06-30",
		},
	}

	return &models.CV{
		OwnerID:     owner.ID,
		Title:       fmt.Sprintf("%s - %s", gofakeit.JobTitle(), owner.Firstname),
		Summary:     gofakeit.Paragraph(1, 3, 8, "\n"),
		Skills:      skills,
		Experiences: experiences,
		Education:   education,
		Visibility:  visibility,
	}
}

// CreateRecommendations persists n recommendations on random CVs by random
// users other than the CV owner.
func (s *Seeder) CreateRecommendations(users []*models.User, cvs []*models.CV, n int) ([]*models.Recommendation, error) {
	if len(users) < 2 || len(cvs) == 0 {
		return nil, nil
	}

	recs := make([]*models.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		cv := cvs[rand.Intn(len(cvs))]
		author := users[rand.Intn(len(users))]
		if author.ID == cv.OwnerID {
			continue
		}

		rec := &models.Recommendation{
			CVID:     cv.ID,
			AuthorID: author.ID,
			Content:  gofakeit.Paragraph(1, 2, 8, "\n"),
			Rating:   1 + rand.Intn(5),
		}
		if err := s.db.Create(rec).Error; err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
