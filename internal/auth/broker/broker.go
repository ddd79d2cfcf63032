// Package broker resolves external credentials (OAuth provider profiles or
// email/password pairs) to internal user records.
package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cyberhud/hud-docs-api/internal/db/models"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

var (
	// ErrInvalidCredentials covers unknown email, provider-only accounts
	// and password mismatches alike, so callers cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrMissingVerifiedEmail is returned when an OAuth provider did not
	// supply a usable verified email address.
	ErrMissingVerifiedEmail = errors.New("provider did not supply a verified email")
)

var providerColumns = map[string]string{
	"github": "github_id",
	"google": "google_id",
}

// Broker performs identity resolution against the store.
type Broker struct {
	db  *gorm.DB
	log *logging.Logger
}

// New builds a broker.
func New(database *gorm.DB, log *logging.Logger) *Broker {
	return &Broker{db: database, log: log.With("component", "broker")}
}

// ResolveOAuth maps a provider profile to a user, creating or linking the
// record. Lookup is by provider id OR email so an OAuth login links to an
// existing account sharing the same address. Idempotent: repeated calls
// with identical input yield the same user.
func (b *Broker) ResolveOAuth(ctx context.Context, provider, providerID, email, displayName string) (*models.User, error) {
	if providerID == "" || email == "" {
		return nil, ErrMissingVerifiedEmail
	}
	column, ok := providerColumns[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	var user models.User
	err := b.db.WithContext(ctx).
		Where(column+" = ? OR email = ?", providerID, email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:            uuid.New().String(),
			TenantID:      uuid.New().String(),
			Email:         email,
			EmailVerified: true, // provider emails are trusted
			DisplayName:   displayName,
		}
		user.SetProviderID(provider, providerID)

		if err := b.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create identity: %w", err)
		}
		if err := b.ensureProfile(ctx, &user); err != nil {
			return nil, err
		}
		b.log.Info("created identity from oauth login",
			"provider", provider, "user_id", user.ID)
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up identity: %w", err)
	}

	// Backfill missing attributes without overwriting user-chosen values.
	changed := false
	if user.ProviderID(provider) == "" {
		user.SetProviderID(provider, providerID)
		changed = true
	}
	if user.DisplayName == "" && displayName != "" {
		user.DisplayName = displayName
		changed = true
	}
	if !user.EmailVerified {
		user.EmailVerified = true
		changed = true
	}
	if changed {
		if err := b.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, fmt.Errorf("link identity: %w", err)
		}
		b.log.Info("linked oauth provider to identity",
			"provider", provider, "user_id", user.ID)
	}
	if err := b.ensureProfile(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolvePassword authenticates an email/password pair. Every failure mode
// returns ErrInvalidCredentials.
func (b *Broker) ResolvePassword(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := b.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up identity: %w", err)
	}
	if user.HashedPassword == "" {
		// Provider-only account, no password login.
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CreatePasswordIdentity registers a new email/password account.
func (b *Broker) CreatePasswordIdentity(ctx context.Context, email, password, displayName string) (*models.User, error) {
	var existing models.User
	err := b.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up identity: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:             uuid.New().String(),
		TenantID:       uuid.New().String(),
		Email:          email,
		HashedPassword: string(hash),
		EmailVerified:  false,
		DisplayName:    displayName,
	}
	if err := b.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}
	if err := b.ensureProfile(ctx, &user); err != nil {
		return nil, err
	}
	b.log.Info("created password identity", "user_id", user.ID)
	return &user, nil
}

// ensureProfile creates the empty onboarding profile that every identity
// carries from signup.
func (b *Broker) ensureProfile(ctx context.Context, user *models.User) error {
	profile := models.UserProfile{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		TenantID: user.TenantID,
	}
	err := b.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		FirstOrCreate(&profile).Error
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}
