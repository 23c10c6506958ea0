package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// generateUUID returns a new random UUID string
func generateUUID() string {
	return uuid.New().String()
}

// BeforeCreate hooks for GORM. The database default covers PostgreSQL;
// these keep ID generation working on databases without gen_random_uuid,
// like the SQLite test databases.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}

func (t *MoodTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = generateUUID()
	}
	return nil
}

func (e *MoodHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = generateUUID()
	}
	return nil
}
