package models

import "time"

// PersonalizedPage caches generated personalized lesson content together
// with the calibration snapshot it was generated against. The entry is
// valid only while the snapshot matches the user's live calibration.
type PersonalizedPage struct {
	ID        string      `gorm:"primaryKey"` // UUID
	UserID    string      `gorm:"index:idx_personalized_user_lesson;not null"`
	TenantID  string      `gorm:"not null"`
	LessonKey string      `gorm:"index:idx_personalized_user_lesson;not null"`
	Content   string      `gorm:"type:text;not null"`
	Snapshot  Calibration `gorm:"embedded;embeddedPrefix:snapshot_"`
	CreatedAt time.Time
}

// LessonSummary caches a generated summary for a lesson. Summaries do not
// depend on the profile, so entries never go stale.
type LessonSummary struct {
	ID        string `gorm:"primaryKey"` // UUID
	UserID    string `gorm:"index:idx_summary_user_lesson;not null"`
	TenantID  string `gorm:"not null"`
	LessonKey string `gorm:"index:idx_summary_user_lesson;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// LessonTranslation caches a generated translation for a lesson in a
// specific target language.
type LessonTranslation struct {
	ID             string `gorm:"primaryKey"` // UUID
	UserID         string `gorm:"index:idx_translation_user_lesson;not null"`
	TenantID       string `gorm:"not null"`
	LessonKey      string `gorm:"index:idx_translation_user_lesson;not null"`
	TargetLanguage string `gorm:"index:idx_translation_user_lesson;not null"`
	Content        string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}
