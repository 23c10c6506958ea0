package models

import (
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"gorm.io/gorm"
)

// User is a listener account. Authentication detail lives in the auth
// package; this model only carries what the catalog and personalization
// code need.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username     string  `gorm:"not null;uniqueIndex" json:"username"`
	Email        string  `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash *string `json:"-"`

	Bio       string `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`

	FavoriteGenres  StringArray `gorm:"type:text" json:"favorite_genres"`
	MoodPreferences StringArray `gorm:"type:text" json:"mood_preferences"`
	LikedSongIDs    StringArray `gorm:"type:text" json:"-"`

	IsAdmin  bool `gorm:"not null;default:false" json:"is_admin"`
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the default table name
func (User) TableName() string {
	return "users"
}

// MoodHistoryEntry is one append-only record of a mood a user listened in.
// Rows are never updated or deleted; personalization reads only the most
// recent few.
type MoodHistoryEntry struct {
	ID      string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  string      `gorm:"not null;index:idx_mood_history_user_created" json:"user_id"`
	Mood    string      `gorm:"not null" json:"mood"`
	SongIDs StringArray `gorm:"type:text" json:"song_ids"`

	CreatedAt time.Time `gorm:"index:idx_mood_history_user_created" json:"created_at"`
}

// TableName overrides the default table name
func (MoodHistoryEntry) TableName() string {
	return "mood_history_entries"
}

// MoodLabel returns the entry's mood as a typed label.
func (e *MoodHistoryEntry) MoodLabel() mood.Mood {
	return mood.Mood(e.Mood)
}
