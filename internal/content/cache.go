// Package content manages the per-user cache of generated lesson content.
// Personalized entries carry a calibration snapshot and are invalidated the
// moment the user's live profile drifts from it; summaries and translations
// are profile-independent and never go stale.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cyberhud/hud-docs-api/internal/db/models"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

// Variant selects which cache table a lookup targets.
type Variant string

const (
	VariantPersonalization Variant = "personalization"
	VariantSummary         Variant = "summary"
	VariantTranslation     Variant = "translation"
)

// GenerateFunc produces fresh content. The user's live calibration is passed
// so personalization prompts can include it.
type GenerateFunc func(ctx context.Context, calibration models.Calibration) (string, error)

// Manager implements the Absent -> Cached -> Invalidated cache state machine.
type Manager struct {
	db  *gorm.DB
	log *logging.Logger
}

// NewManager builds a cache manager.
func NewManager(database *gorm.DB, log *logging.Logger) *Manager {
	return &Manager{db: database, log: log.With("component", "content-cache")}
}

// KeyFor derives the deterministic lesson key from a lesson's canonical URL
// (UUIDv5 in the URL namespace). Stable across process restarts.
func KeyFor(lessonURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(lessonURL)).String()
}

// Request identifies one cache slot.
type Request struct {
	User      *models.User
	LessonURL string
	Variant   Variant
	// TargetLanguage applies to translation requests only.
	TargetLanguage string
}

// GetOrGenerate returns cached content when valid, otherwise invokes
// generate and caches the result. A failure to persist the fresh entry is
// logged and swallowed: caching is an optimization, never a correctness
// requirement.
func (m *Manager) GetOrGenerate(ctx context.Context, req Request, generate GenerateFunc) (string, error) {
	lessonKey := KeyFor(req.LessonURL)

	calibration, err := m.LiveCalibration(ctx, req.User.ID)
	if err != nil {
		return "", err
	}

	switch req.Variant {
	case VariantPersonalization:
		var page models.PersonalizedPage
		err := m.db.WithContext(ctx).
			Where("user_id = ? AND lesson_key = ?", req.User.ID, lessonKey).
			First(&page).Error
		if err == nil {
			if page.Snapshot == calibration {
				return page.Content, nil
			}
			// Profile drifted; the entry is stale.
			if delErr := m.db.WithContext(ctx).Delete(&page).Error; delErr != nil {
				m.log.Warn("failed to delete stale entry",
					"lesson_key", lessonKey, "error", delErr)
			} else {
				m.log.Info("invalidated stale personalized page",
					"user_id", req.User.ID, "lesson_key", lessonKey)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Cache reads degrade to a miss; the cache is never a
			// correctness requirement.
			m.log.Warn("cache lookup failed", "lesson_key", lessonKey, "error", err)
		}

	case VariantSummary:
		var summary models.LessonSummary
		err := m.db.WithContext(ctx).
			Where("user_id = ? AND lesson_key = ?", req.User.ID, lessonKey).
			First(&summary).Error
		if err == nil {
			return summary.Content, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			m.log.Warn("cache lookup failed", "lesson_key", lessonKey, "error", err)
		}

	case VariantTranslation:
		var translation models.LessonTranslation
		err := m.db.WithContext(ctx).
			Where("user_id = ? AND lesson_key = ? AND target_language = ?",
				req.User.ID, lessonKey, req.TargetLanguage).
			First(&translation).Error
		if err == nil {
			return translation.Content, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			m.log.Warn("cache lookup failed", "lesson_key", lessonKey, "error", err)
		}

	default:
		return "", fmt.Errorf("unknown cache variant %q", req.Variant)
	}

	fresh, err := generate(ctx, calibration)
	if err != nil {
		return "", err
	}

	if err := m.persist(ctx, req, lessonKey, fresh, calibration); err != nil {
		m.log.Warn("failed to persist cache entry",
			"variant", req.Variant, "lesson_key", lessonKey, "error", err)
	}
	return fresh, nil
}

func (m *Manager) persist(ctx context.Context, req Request, lessonKey, content string, calibration models.Calibration) error {
	switch req.Variant {
	case VariantPersonalization:
		return m.db.WithContext(ctx).Create(&models.PersonalizedPage{
			ID:        uuid.New().String(),
			UserID:    req.User.ID,
			TenantID:  req.User.TenantID,
			LessonKey: lessonKey,
			Content:   content,
			Snapshot:  calibration,
		}).Error
	case VariantSummary:
		return m.db.WithContext(ctx).Create(&models.LessonSummary{
			ID:        uuid.New().String(),
			UserID:    req.User.ID,
			TenantID:  req.User.TenantID,
			LessonKey: lessonKey,
			Content:   content,
		}).Error
	case VariantTranslation:
		return m.db.WithContext(ctx).Create(&models.LessonTranslation{
			ID:             uuid.New().String(),
			UserID:         req.User.ID,
			TenantID:       req.User.TenantID,
			LessonKey:      lessonKey,
			TargetLanguage: req.TargetLanguage,
			Content:        content,
		}).Error
	}
	return fmt.Errorf("unknown cache variant %q", req.Variant)
}

// LiveCalibration loads the user's current profile fields. A missing
// profile row behaves like an empty calibration.
func (m *Manager) LiveCalibration(ctx context.Context, userID string) (models.Calibration, error) {
	var profile models.UserProfile
	err := m.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Calibration{}, nil
	}
	if err != nil {
		return models.Calibration{}, fmt.Errorf("load profile: %w", err)
	}
	return profile.Calibration, nil
}
