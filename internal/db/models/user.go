package models

import "time"

// User is an account on the documentation platform. It may carry a password
// hash, one or more linked OAuth provider identities, or both.
type User struct {
	ID             string `gorm:"primaryKey"` // UUID
	TenantID       string `gorm:"not null"`   // assigned once at creation, never updated
	Email          string `gorm:"uniqueIndex;not null"`
	HashedPassword string
	GitHubID       string `gorm:"column:github_id;index"`
	GoogleID       string `gorm:"column:google_id;index"`
	EmailVerified  bool   `gorm:"default:false"`
	DisplayName    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProviderID returns the stored identifier for the named OAuth provider.
func (u *User) ProviderID(provider string) string {
	switch provider {
	case "github":
		return u.GitHubID
	case "google":
		return u.GoogleID
	}
	return ""
}

// SetProviderID stores the identifier for the named OAuth provider.
// Unknown provider names are ignored.
func (u *User) SetProviderID(provider, id string) {
	switch provider {
	case "github":
		u.GitHubID = id
	case "google":
		u.GoogleID = id
	}
}
