package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/cyberhud/hud-docs-api/internal/db/models"
)

type stubGenerator struct {
	calls     int
	lastSkill string
	lastExtra string
	output    string
}

func (s *stubGenerator) GenerateSkill(ctx context.Context, skill, content, extraContext string) string {
	s.calls++
	s.lastSkill = skill
	s.lastExtra = extraContext
	return s.output
}

func TestSummarizeCachesPerLesson(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "sum@x.com", "password-123")
	gen := &stubGenerator{output: "the summary"}
	handler := SummarizeHandler(gen, env.cache, env.log)

	payload := map[string]string{"content": "lesson body", "lesson_url": "/docs/intro"}
	first := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize", payload))
	second := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize", payload))

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", first.Code, second.Code)
	}
	if decodeBody(t, second)["result"] != "the summary" {
		t.Fatalf("unexpected body: %s", second.Body.String())
	}
	if gen.calls != 1 {
		t.Fatalf("generator should run once, ran %d times", gen.calls)
	}
	if gen.lastSkill != "lesson-summarizer" {
		t.Fatalf("wrong skill %q", gen.lastSkill)
	}
}

func TestSummarizeWithoutLessonSkipsCache(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "adhoc@x.com", "password-123")
	gen := &stubGenerator{output: "the summary"}
	handler := SummarizeHandler(gen, env.cache, env.log)

	payload := map[string]string{"content": "pasted text"}
	env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize", payload))
	env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize", payload))

	if gen.calls != 2 {
		t.Fatalf("uncached requests should regenerate, ran %d times", gen.calls)
	}
}

func TestDiagnosticOutputNotCached(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "diag@x.com", "password-123")
	gen := &stubGenerator{output: "System Error: AI Service Unavailable (Configuration Error)."}
	handler := SummarizeHandler(gen, env.cache, env.log)

	payload := map[string]string{"content": "lesson body", "lesson_url": "/docs/intro"}
	first := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize", payload))
	if first.Code != http.StatusOK {
		t.Fatalf("diagnostics answer 200, got %d", first.Code)
	}
	if !strings.Contains(first.Body.String(), "System Error") {
		t.Fatalf("diagnostic lost: %s", first.Body.String())
	}

	// The diagnostic must not be served from cache once the service recovers.
	gen.output = "real summary"
	second := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize", payload))
	if decodeBody(t, second)["result"] != "real summary" {
		t.Fatalf("diagnostic was cached: %s", second.Body.String())
	}
}

func TestTranslateDefaultsToUrdu(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "tr@x.com", "password-123")
	gen := &stubGenerator{output: "ترجمہ"}
	handler := TranslateHandler(gen, env.cache, env.log)

	w := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/translate",
		map[string]string{"content": "lesson body"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gen.lastSkill != "urdu-translator" || gen.lastExtra != "" {
		t.Fatalf("unexpected skill call %q/%q", gen.lastSkill, gen.lastExtra)
	}
}

func TestTranslateOtherLanguagePassesContext(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "fr@x.com", "password-123")
	gen := &stubGenerator{output: "traduction"}
	handler := TranslateHandler(gen, env.cache, env.log)

	env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/translate",
		map[string]string{"content": "lesson body", "target_language": "fr"}))
	if !strings.Contains(gen.lastExtra, "fr") {
		t.Fatalf("target language not forwarded: %q", gen.lastExtra)
	}
}

func TestPersonalizeUsesCalibration(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "pers@x.com", "password-123")
	err := env.db.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Updates(map[string]interface{}{
		"programming_proficiency": "expert",
		"ai_proficiency":          "beginner",
		"hardware_info":           "Jetson Orin",
	}).Error
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	gen := &stubGenerator{output: "personalized"}
	handler := PersonalizeHandler(gen, env.cache, env.log)

	w := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/personalize",
		map[string]string{"content": "lesson body", "lesson_url": "/docs/intro"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gen.lastSkill != "content-personalizer" {
		t.Fatalf("wrong skill %q", gen.lastSkill)
	}
	if !strings.Contains(gen.lastExtra, "expert") || !strings.Contains(gen.lastExtra, "Jetson Orin") {
		t.Fatalf("calibration missing from context: %q", gen.lastExtra)
	}
}

func TestPersonalizeEmptyProfileFallsBack(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "empty@x.com", "password-123")
	gen := &stubGenerator{output: "personalized"}
	handler := PersonalizeChapterHandler(gen, env.cache, env.log)

	w := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/personalize-chapter",
		map[string]string{"content": "chapter body"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gen.lastExtra != "General Engineering" {
		t.Fatalf("expected fallback audience, got %q", gen.lastExtra)
	}
}

func TestGenerateRequiresContent(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "nocontent@x.com", "password-123")
	handler := SummarizeHandler(&stubGenerator{output: "x"}, env.cache, env.log)

	w := env.authed(t, user, handler, jsonRequest(t, http.MethodPost, "/api/ai/summarize",
		map[string]string{"lesson_url": "/docs/intro"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
