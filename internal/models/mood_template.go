package models

import (
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"gorm.io/gorm"
)

// RangeOverride is an optional closed interval a template may impose on one
// audio feature. Both bounds nil means the template leaves the feature
// unconstrained; that is distinct from a zero bound, which is a real limit.
type RangeOverride struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Defined reports whether the template actually supplies this range.
func (r RangeOverride) Defined() bool {
	return r.Min != nil || r.Max != nil
}

// TemplateCriteria are the per-template query overrides layered on top of a
// mood's seeded profile: an optional genre allowlist plus optional feature
// ranges.
type TemplateCriteria struct {
	Genres  StringArray   `gorm:"type:text" json:"genres"`
	Tempo   RangeOverride `gorm:"embedded;embeddedPrefix:tempo_" json:"tempo"`
	Energy  RangeOverride `gorm:"embedded;embeddedPrefix:energy_" json:"energy"`
	Valence RangeOverride `gorm:"embedded;embeddedPrefix:valence_" json:"valence"`
}

// MoodTemplate is a persisted, possibly customized instance of a mood
// profile. Templates are created by admins, never hard-deleted (IsActive
// toggles visibility), and their usage count only ever increases.
type MoodTemplate struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	Mood        string `gorm:"not null;index" json:"mood"`

	Tags     StringArray      `gorm:"type:text" json:"tags"`
	Criteria TemplateCriteria `gorm:"embedded;embeddedPrefix:criteria_" json:"criteria"`

	// SongIDs are curated tracks pinned to the template, independent of
	// what the criteria query returns.
	SongIDs StringArray `gorm:"type:text" json:"song_ids"`

	IsActive   bool  `gorm:"not null;default:true;index" json:"is_active"`
	UsageCount int64 `gorm:"not null;default:0" json:"usage_count"`

	CreatedByID string `gorm:"index" json:"created_by_id"`
	CreatedBy   *User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the default table name
func (MoodTemplate) TableName() string {
	return "mood_templates"
}

// MoodLabel returns the template's mood as a typed label.
func (t *MoodTemplate) MoodLabel() mood.Mood {
	return mood.Mood(t.Mood)
}
