package repository

import (
	"context"
	"errors"

	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("mood template not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// TemplateRepository handles all database operations for mood templates
type TemplateRepository interface {
	Create(ctx context.Context, template *models.MoodTemplate) error
	Get(ctx context.Context, id string) (*models.MoodTemplate, error)

	// FindByMood returns the active template for a mood, or
	// ErrTemplateNotFound if none is active.
	FindByMood(ctx context.Context, m mood.Mood) (*models.MoodTemplate, error)

	// ListActive returns active templates sorted by usage count descending.
	// A non-empty moods filter narrows the result to those labels.
	ListActive(ctx context.Context, moods []mood.Mood, limit int) ([]models.MoodTemplate, error)

	// IncrementUsage bumps a template's usage counter by exactly one, as a
	// single atomic SQL update. Never read-modify-write: concurrent callers
	// must each land their increment.
	IncrementUsage(ctx context.Context, id string) error

	// SetActive toggles the template's visibility. Inactive templates stay
	// addressable by id so admins can reactivate them.
	SetActive(ctx context.Context, id string, active bool) error
}

// templateRepository implements TemplateRepository interface
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a new mood template
func (r *templateRepository) Create(ctx context.Context, template *models.MoodTemplate) error {
	if template == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(template).Error
}

// Get gets a template by ID, active or not
func (r *templateRepository) Get(ctx context.Context, id string) (*models.MoodTemplate, error) {
	var template models.MoodTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}

	return &template, err
}

// FindByMood gets the active template for a mood
func (r *templateRepository) FindByMood(ctx context.Context, m mood.Mood) (*models.MoodTemplate, error) {
	var template models.MoodTemplate
	err := r.db.WithContext(ctx).
		Where("mood = ? AND is_active = ?", string(m), true).
		First(&template).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}

	return &template, err
}

// ListActive gets active templates, most used first
func (r *templateRepository) ListActive(ctx context.Context, moods []mood.Mood, limit int) ([]models.MoodTemplate, error) {
	db := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("usage_count DESC")

	if len(moods) > 0 {
		labels := make([]string, 0, len(moods))
		for _, m := range moods {
			labels = append(labels, string(m))
		}
		db = db.Where("mood IN ?", labels)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}

	var templates []models.MoodTemplate
	err := db.Find(&templates).Error
	return templates, err
}

// IncrementUsage atomically increments a template's usage counter
func (r *templateRepository) IncrementUsage(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.MoodTemplate{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// SetActive toggles a template's active flag
func (r *templateRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.MoodTemplate{}).
		Where("id = ?", id).
		Update("is_active", active)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
