package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/cyberhud/hud-docs-api/internal/api/middleware"
	"github.com/cyberhud/hud-docs-api/internal/db/models"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

// MeHandler returns the authenticated user.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, userResponse(user))
	}
}

// onboardingRequest uses pointers so omitted fields merge instead of
// clearing stored answers.
type onboardingRequest struct {
	ProgrammingProficiency *string `json:"programming_proficiency"`
	AIProficiency          *string `json:"ai_proficiency"`
	HardwareInfo           *string `json:"hardware_info"`
}

func onboardingResponse(profile *models.UserProfile) map[string]interface{} {
	return map[string]interface{}{
		"programming_proficiency": profile.ProgrammingProficiency,
		"ai_proficiency":          profile.AIProficiency,
		"hardware_info":           profile.HardwareInfo,
		"completed":               !profile.Calibration.Empty(),
	}
}

// GetOnboardingHandler returns the user's onboarding answers.
func GetOnboardingHandler(database *gorm.DB, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var profile models.UserProfile
		err := database.WithContext(r.Context()).Where("user_id = ?", user.ID).First(&profile).Error
		if err != nil {
			log.Error("failed to load profile", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, onboardingResponse(&profile))
	}
}

// UpdateOnboardingHandler merges the supplied answers into the profile.
// Idempotent: repeating the same payload leaves the profile unchanged.
func UpdateOnboardingHandler(database *gorm.DB, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var req onboardingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var profile models.UserProfile
		err := database.WithContext(r.Context()).Where("user_id = ?", user.ID).First(&profile).Error
		if err != nil {
			log.Error("failed to load profile", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if req.ProgrammingProficiency != nil {
			profile.ProgrammingProficiency = *req.ProgrammingProficiency
		}
		if req.AIProficiency != nil {
			profile.AIProficiency = *req.AIProficiency
		}
		if req.HardwareInfo != nil {
			profile.HardwareInfo = *req.HardwareInfo
		}

		if err := database.WithContext(r.Context()).Save(&profile).Error; err != nil {
			log.Error("failed to save profile", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, onboardingResponse(&profile))
	}
}
