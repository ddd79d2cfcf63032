package models

import "time"

// Calibration is the set of profile attributes that personalized content
// depends on. It is embedded both in the live profile and, as a snapshot,
// in each personalized page so staleness can be detected by comparison.
type Calibration struct {
	ProgrammingProficiency string
	AIProficiency          string `gorm:"column:ai_proficiency"`
	HardwareInfo           string
}

// Empty reports whether no calibration field is set.
func (c Calibration) Empty() bool {
	return c == Calibration{}
}

// UserProfile stores a user's onboarding answers. Created empty at signup
// and updated via merge: only supplied fields overwrite.
type UserProfile struct {
	ID          string `gorm:"primaryKey"` // UUID
	UserID      string `gorm:"uniqueIndex;not null"`
	TenantID    string `gorm:"not null"`
	Calibration `gorm:"embedded"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
