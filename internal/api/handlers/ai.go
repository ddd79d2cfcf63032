package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cyberhud/hud-docs-api/internal/ai"
	"github.com/cyberhud/hud-docs-api/internal/api/middleware"
	"github.com/cyberhud/hud-docs-api/internal/content"
	"github.com/cyberhud/hud-docs-api/internal/db/models"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

const (
	skillSummarizer   = "lesson-summarizer"
	skillTranslator   = "urdu-translator"
	skillPersonalizer = "content-personalizer"

	defaultTargetLanguage = "ur"
)

type generateRequest struct {
	Content        string `json:"content"`
	LessonURL      string `json:"lesson_url"`
	TargetLanguage string `json:"target_language"`
}

// degradedError carries a diagnostic string produced instead of real
// content. It keeps diagnostics out of the cache while still reaching the
// client as a 200 body, matching the no-propagation failure contract.
type degradedError struct {
	output string
}

func (e *degradedError) Error() string { return "generation degraded" }

// SummarizeHandler produces a lesson summary, cached per user and lesson
// when a lesson URL is supplied.
func SummarizeHandler(generator ai.Generator, cache *content.Manager, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, user, ok := decodeGenerateRequest(w, r)
		if !ok {
			return
		}

		gen := func(ctx context.Context, _ models.Calibration) (string, error) {
			return skillOutput(generator.GenerateSkill(ctx, skillSummarizer, req.Content, ""))
		}
		serveGenerated(w, r, cache, log, content.Request{
			User:      user,
			LessonURL: req.LessonURL,
			Variant:   content.VariantSummary,
		}, gen)
	}
}

// TranslateHandler translates lesson content, Urdu by default, cached per
// user, lesson and target language.
func TranslateHandler(generator ai.Generator, cache *content.Manager, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, user, ok := decodeGenerateRequest(w, r)
		if !ok {
			return
		}
		lang := req.TargetLanguage
		if lang == "" {
			lang = defaultTargetLanguage
		}
		extra := ""
		if !strings.EqualFold(lang, defaultTargetLanguage) && !strings.EqualFold(lang, "urdu") {
			extra = "Target language: " + lang
		}

		gen := func(ctx context.Context, _ models.Calibration) (string, error) {
			return skillOutput(generator.GenerateSkill(ctx, skillTranslator, req.Content, extra))
		}
		serveGenerated(w, r, cache, log, content.Request{
			User:           user,
			LessonURL:      req.LessonURL,
			Variant:        content.VariantTranslation,
			TargetLanguage: lang,
		}, gen)
	}
}

// PersonalizeHandler rewrites lesson content for the user's calibration,
// cached per user and lesson with snapshot validation.
func PersonalizeHandler(generator ai.Generator, cache *content.Manager, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, user, ok := decodeGenerateRequest(w, r)
		if !ok {
			return
		}

		gen := func(ctx context.Context, calibration models.Calibration) (string, error) {
			return skillOutput(generator.GenerateSkill(ctx, skillPersonalizer, req.Content, calibrationContext(calibration)))
		}
		serveGenerated(w, r, cache, log, content.Request{
			User:      user,
			LessonURL: req.LessonURL,
			Variant:   content.VariantPersonalization,
		}, gen)
	}
}

// PersonalizeChapterHandler personalizes a whole chapter in one pass.
// Chapter bodies arrive in the request and have no stable lesson URL, so
// the result is never cached.
func PersonalizeChapterHandler(generator ai.Generator, cache *content.Manager, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, user, ok := decodeGenerateRequest(w, r)
		if !ok {
			return
		}

		calibration, err := cache.LiveCalibration(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to load calibration", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		output := generator.GenerateSkill(r.Context(), skillPersonalizer, req.Content, calibrationContext(calibration))
		writeJSON(w, http.StatusOK, map[string]string{"result": output})
	}
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, *models.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return generateRequest{}, nil, false
	}
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return generateRequest{}, nil, false
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return generateRequest{}, nil, false
	}
	return req, user, true
}

// serveGenerated runs the generation through the cache when the request
// names a lesson, directly otherwise. Diagnostic outputs bypass the cache
// but still answer 200.
func serveGenerated(w http.ResponseWriter, r *http.Request, cache *content.Manager,
	log *logging.Logger, cacheReq content.Request, gen content.GenerateFunc) {
	var output string
	var err error

	if cacheReq.LessonURL != "" {
		output, err = cache.GetOrGenerate(r.Context(), cacheReq, gen)
	} else {
		calibration, calErr := cache.LiveCalibration(r.Context(), cacheReq.User.ID)
		if calErr != nil {
			log.Error("failed to load calibration", "user_id", cacheReq.User.ID, "error", calErr)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		output, err = gen(r.Context(), calibration)
	}

	if err != nil {
		var degraded *degradedError
		if errors.As(err, &degraded) {
			writeJSON(w, http.StatusOK, map[string]string{"result": degraded.output})
			return
		}
		log.Error("generation failed", "variant", string(cacheReq.Variant), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": output})
}

func skillOutput(output string) (string, error) {
	if ai.IsDiagnostic(output) {
		return "", &degradedError{output: output}
	}
	return output, nil
}

// calibrationContext renders the profile for the personalization prompt.
// An empty profile falls back to a generic audience.
func calibrationContext(c models.Calibration) string {
	if c.Empty() {
		return "General Engineering"
	}
	return fmt.Sprintf("Programming proficiency: %s. AI proficiency: %s. Hardware: %s.",
		orUnknown(c.ProgrammingProficiency), orUnknown(c.AIProficiency), orUnknown(c.HardwareInfo))
}

func orUnknown(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
