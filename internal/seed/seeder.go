package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/recommendations"
	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedGenres = []string{
	"pop", "rock", "electronic", "house", "hip-hop", "jazz",
	"classical", "ambient", "r&b", "latin", "folk", "metal",
}

// Seeder handles database seeding operations
type Seeder struct {
	db   *gorm.DB
	recs *recommendations.Service
}

// NewSeeder creates a new seeder instance. The recommendation service is
// used to mood-tag each seeded song the same way a real upload would be.
func NewSeeder(db *gorm.DB, recs *recommendations.Service) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, recs: recs}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(25)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating songs...")
	if err := s.seedSongs(users, 500); err != nil {
		return fmt.Errorf("failed to seed songs: %w", err)
	}

	log("Creating mood templates...")
	if err := s.seedTemplates(users); err != nil {
		return fmt.Errorf("failed to seed mood templates: %w", err)
	}

	log("Creating mood history...")
	if err := s.seedMoodHistory(users, 300); err != nil {
		return fmt.Errorf("failed to seed mood history: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with minimal data
func (s *Seeder) SeedTest() error {
	users, err := s.seedUsers(3)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedSongs(users, 30); err != nil {
		return fmt.Errorf("failed to seed songs: %w", err)
	}
	return s.seedTemplates(users)
}

// Clean removes all seed data (use with caution!)
func (s *Seeder) Clean() error {
	// Delete in reverse order of dependencies
	if err := s.db.Exec("DELETE FROM mood_history_entries").Error; err != nil {
		return fmt.Errorf("failed to clean mood_history_entries: %w", err)
	}
	if err := s.db.Exec("DELETE FROM mood_templates").Error; err != nil {
		return fmt.Errorf("failed to clean mood_templates: %w", err)
	}
	if err := s.db.Exec("DELETE FROM songs").Error; err != nil {
		return fmt.Errorf("failed to clean songs: %w", err)
	}
	if err := s.db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("failed to clean users: %w", err)
	}
	return nil
}

// seedUsers creates users with realistic data. The first user is always an
// admin so seeded environments have someone who can manage templates.
func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedPasswordStr := string(hashedPassword)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		genres := make(models.StringArray, 0, 2)
		for j := 0; j < 2; j++ {
			genres = append(genres, seedGenres[rand.Intn(len(seedGenres))])
		}

		user := models.User{
			Username:       fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:          fmt.Sprintf("seed%d_%s", i, gofakeit.Email()),
			PasswordHash:   &hashedPasswordStr,
			Bio:            gofakeit.Sentence(8),
			FavoriteGenres: genres,
			IsAdmin:        i == 0,
			IsActive:       true,
		}

		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}
		users = append(users, user)
	}

	return users, nil
}

// seedSongs creates songs whose feature vectors mostly land inside a seeded
// mood profile, so the classifier produces a believable tag distribution.
func (s *Seeder) seedSongs(users []models.User, count int) error {
	profiles := s.recs.Classifier().Profiles()
	moods := profiles.Moods()

	for i := 0; i < count; i++ {
		uploader := users[rand.Intn(len(users))]

		genres := make(models.StringArray, 0, 2)
		genres = append(genres, seedGenres[rand.Intn(len(seedGenres))])
		if rand.Float64() < 0.4 {
			genres = append(genres, seedGenres[rand.Intn(len(seedGenres))])
		}

		song := models.Song{
			Title:        gofakeit.Sentence(3),
			Artist:       gofakeit.Name(),
			Album:        gofakeit.BookTitle(),
			Genres:       genres,
			Duration:     120 + rand.Intn(240),
			AudioURL:     fmt.Sprintf("https://cdn.example.com/audio/seed/%s.mp3", gofakeit.UUID()),
			CoverURL:     fmt.Sprintf("https://cdn.example.com/covers/seed/%s.jpg", gofakeit.UUID()),
			Features:     s.randomFeatures(profiles, moods),
			UploadedByID: uploader.ID,
			Plays:        int64(rand.Intn(50000)),
			Likes:        int64(rand.Intn(5000)),
			IsActive:     true,
		}

		s.recs.TagSong(&song)

		if err := s.db.Create(&song).Error; err != nil {
			return fmt.Errorf("failed to create song %q: %w", song.Title, err)
		}
	}

	return nil
}

// randomFeatures draws a feature vector. Most songs are sampled from inside
// one profile's criteria; the rest are fully random, and a few omit
// features the way sparse real-world metadata does.
func (s *Seeder) randomFeatures(profiles *mood.ProfileSet, moods []mood.Mood) mood.FeatureVector {
	ptr := func(v float64) *float64 { return &v }

	if rand.Float64() < 0.7 {
		profile, _ := profiles.Get(moods[rand.Intn(len(moods))])
		vector := mood.FeatureVector{
			Tempo:        ptr(60 + rand.Float64()*140),
			Energy:       ptr(rand.Float64()),
			Valence:      ptr(rand.Float64()),
			Danceability: ptr(rand.Float64()),
		}
		for _, criterion := range profile.Criteria {
			value := ptr(criterion.Min + rand.Float64()*(criterion.Max-criterion.Min))
			switch criterion.Feature {
			case mood.FeatureTempo:
				vector.Tempo = value
			case mood.FeatureEnergy:
				vector.Energy = value
			case mood.FeatureValence:
				vector.Valence = value
			case mood.FeatureDanceability:
				vector.Danceability = value
			}
		}
		return vector
	}

	vector := mood.FeatureVector{
		Tempo:        ptr(60 + rand.Float64()*140),
		Energy:       ptr(rand.Float64()),
		Valence:      ptr(rand.Float64()),
		Danceability: ptr(rand.Float64()),
	}
	// Sparse metadata: sometimes a feature is simply missing
	if rand.Float64() < 0.1 {
		vector.Danceability = nil
	}
	if rand.Float64() < 0.05 {
		vector.Valence = nil
	}
	return vector
}

// seedTemplates creates one active template per seeded mood profile, owned
// by the admin user.
func (s *Seeder) seedTemplates(users []models.User) error {
	admin := users[0]
	profiles := s.recs.Classifier().Profiles()

	for _, m := range profiles.Moods() {
		var existing models.MoodTemplate
		err := s.db.Where("mood = ?", string(m)).First(&existing).Error
		if err == nil {
			continue
		}

		template := models.MoodTemplate{
			Name:        fmt.Sprintf("%s mix", m),
			Description: fmt.Sprintf("Songs that match the %s mood profile", m),
			Mood:        string(m),
			Tags:        models.StringArray{string(m), "seeded"},
			IsActive:    true,
			UsageCount:  int64(rand.Intn(200)),
			CreatedByID: admin.ID,
		}

		if err := s.db.Create(&template).Error; err != nil {
			return fmt.Errorf("failed to create template for %s: %w", m, err)
		}
	}

	return nil
}

// seedMoodHistory writes listening history entries spread across users so
// personalization has something to rank.
func (s *Seeder) seedMoodHistory(users []models.User, count int) error {
	var songIDs []string
	if err := s.db.Model(&models.Song{}).Limit(200).Pluck("id", &songIDs).Error; err != nil {
		return fmt.Errorf("failed to load song ids: %w", err)
	}

	for i := 0; i < count; i++ {
		user := users[rand.Intn(len(users))]
		m := mood.AllMoods[rand.Intn(len(mood.AllMoods))]

		var sessionSongs models.StringArray
		for j := 0; j < 1+rand.Intn(4) && len(songIDs) > 0; j++ {
			sessionSongs = append(sessionSongs, songIDs[rand.Intn(len(songIDs))])
		}

		entry := models.MoodHistoryEntry{
			UserID:    user.ID,
			Mood:      string(m),
			SongIDs:   sessionSongs,
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		}
		if err := s.db.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create mood history entry: %w", err)
		}
	}

	return nil
}
