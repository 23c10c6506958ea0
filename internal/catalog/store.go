package catalog

import (
	"context"
	"fmt"

	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"gorm.io/gorm"
)

// Store is the catalog collaborator: everything the mood engine needs from
// song persistence.
type Store interface {
	// Find runs a predicate query, sorted by plays descending, and returns
	// the requested page plus the total match count.
	Find(ctx context.Context, q SongQuery, page Page) ([]models.Song, int64, error)

	// Search does a case-insensitive substring match over title, artist
	// and album, active songs only.
	Search(ctx context.Context, term string, page Page) ([]models.Song, int64, error)

	// FindByIDs loads songs by id, preserving no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]models.Song, error)

	Create(ctx context.Context, song *models.Song) error
	IncrementPlays(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

// GormStore implements Store on a SQL database via GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a catalog store over the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// arrayContains builds a portable membership test against a StringArray
// column, whose serialized form is "{a,b,c}". Works on both PostgreSQL and
// the SQLite test databases.
func arrayContains(column string) string {
	return "(',' || replace(replace(" + column + ", '{', ''), '}', '') || ',') LIKE ?"
}

func arrayContainsArg(value string) string {
	return "%," + value + ",%"
}

func (s *GormStore) apply(ctx context.Context, q SongQuery) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&models.Song{}).Where("is_active = ?", true)

	if q.MoodTag != nil {
		db = db.Where(arrayContains("mood_tags"), arrayContainsArg(string(*q.MoodTag)))
	}
	// Genres and FilterGenres are independent conditions: a song must carry
	// at least one genre from each non-empty group.
	for _, group := range [][]string{q.Genres, q.FilterGenres} {
		if len(group) == 0 {
			continue
		}
		genreCond := s.db.Session(&gorm.Session{NewDB: true})
		for i, g := range group {
			if i == 0 {
				genreCond = genreCond.Where(arrayContains("genres"), arrayContainsArg(g))
			} else {
				genreCond = genreCond.Or(arrayContains("genres"), arrayContainsArg(g))
			}
		}
		db = db.Where(genreCond)
	}

	ranges := []struct {
		column string
		r      *Range
	}{
		{"feature_tempo", q.Tempo},
		{"feature_energy", q.Energy},
		{"feature_valence", q.Valence},
		{"feature_danceability", q.Danceability},
	}
	for _, f := range ranges {
		if f.r != nil {
			db = db.Where(f.column+" >= ? AND "+f.column+" <= ?", f.r.Min, f.r.Max)
		}
	}

	if len(q.ExcludeIDs) > 0 {
		db = db.Where("id NOT IN ?", q.ExcludeIDs)
	}
	return db
}

// Find implements Store.
func (s *GormStore) Find(ctx context.Context, q SongQuery, page Page) ([]models.Song, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}

	db := s.apply(ctx, q)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting songs: %w", err)
	}

	var songs []models.Song
	err := db.Order("plays DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&songs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("querying songs: %w", err)
	}
	return songs, total, nil
}

// Search implements Store.
func (s *GormStore) Search(ctx context.Context, term string, page Page) ([]models.Song, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}

	pattern := "%" + term + "%"
	db := s.db.WithContext(ctx).Model(&models.Song{}).
		Where("is_active = ?", true).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(artist) LIKE LOWER(?) OR LOWER(album) LIKE LOWER(?)",
			pattern, pattern, pattern)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting search results: %w", err)
	}

	var songs []models.Song
	err := db.Order("plays DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&songs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("searching songs: %w", err)
	}
	return songs, total, nil
}

// FindByIDs implements Store.
func (s *GormStore) FindByIDs(ctx context.Context, ids []string) ([]models.Song, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var songs []models.Song
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("loading songs by id: %w", err)
	}
	return songs, nil
}

// Create implements Store.
func (s *GormStore) Create(ctx context.Context, song *models.Song) error {
	return s.db.WithContext(ctx).Create(song).Error
}

// IncrementPlays implements Store.
func (s *GormStore) IncrementPlays(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.Song{}).
		Where("id = ?", id).
		UpdateColumn("plays", gorm.Expr("plays + 1")).Error
}

// IncrementLikes implements Store.
func (s *GormStore) IncrementLikes(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.Song{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}
