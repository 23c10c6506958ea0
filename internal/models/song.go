package models

import (
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"gorm.io/gorm"
)

// Song represents one catalog entry: an uploaded track with its computed
// audio features and the mood tags assigned at ingestion time.
type Song struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	Artist string `gorm:"not null" json:"artist"`
	Album  string `json:"album"`

	Genres   StringArray `gorm:"type:text" json:"genres"`
	Duration int         `gorm:"not null" json:"duration"` // seconds
	AudioURL string      `gorm:"not null" json:"audio_url"`
	CoverURL string      `json:"cover_url"`
	Lyrics   string      `gorm:"type:text" json:"lyrics,omitempty"`

	// MoodTags are assigned once by the classifier when the song enters the
	// catalog and stay fixed unless the song is explicitly re-scored.
	MoodTags StringArray        `gorm:"type:text" json:"mood_tags"`
	Features mood.FeatureVector `gorm:"embedded;embeddedPrefix:feature_" json:"audio_features"`

	UploadedByID string `gorm:"index" json:"uploaded_by_id"`
	UploadedBy   *User  `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`

	Plays    int64 `gorm:"not null;default:0" json:"plays"`
	Likes    int64 `gorm:"not null;default:0" json:"likes"`
	IsActive bool  `gorm:"not null;default:true;index" json:"is_active"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the default table name
func (Song) TableName() string {
	return "songs"
}

// HasMoodTag reports whether the song was tagged with the given mood.
func (s *Song) HasMoodTag(m mood.Mood) bool {
	return s.MoodTags.Contains(string(m))
}

// SetMoodTags replaces the song's mood tags from classifier output.
func (s *Song) SetMoodTags(moods []mood.Mood) {
	tags := make(StringArray, 0, len(moods))
	for _, m := range moods {
		tags = append(tags, string(m))
	}
	s.MoodTags = tags
}
