package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "me@x.com", "password-123")

	w := env.authed(t, user, MeHandler(), httptest.NewRequest(http.MethodGet, "/users/me", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["email"] != "me@x.com" || body["id"] != user.ID {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestOnboardingStartsEmpty(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "fresh@x.com", "password-123")

	w := env.authed(t, user, GetOnboardingHandler(env.db, env.log),
		httptest.NewRequest(http.MethodGet, "/users/me/onboarding", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["completed"] != false {
		t.Fatalf("fresh profile should be incomplete: %v", body)
	}
}

func TestOnboardingMergeKeepsOmittedFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "merge@x.com", "password-123")
	update := UpdateOnboardingHandler(env.db, env.log)

	w := env.authed(t, user, update, jsonRequest(t, http.MethodPost, "/users/onboarding", map[string]string{
		"programming_proficiency": "intermediate",
		"hardware_info":           "RTX 3060",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("first update: %d: %s", w.Code, w.Body.String())
	}

	// A second update naming only one field must not clear the others.
	w = env.authed(t, user, update, jsonRequest(t, http.MethodPost, "/users/onboarding", map[string]string{
		"ai_proficiency": "beginner",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("second update: %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["programming_proficiency"] != "intermediate" ||
		body["ai_proficiency"] != "beginner" ||
		body["hardware_info"] != "RTX 3060" {
		t.Fatalf("merge lost fields: %v", body)
	}
	if body["completed"] != true {
		t.Fatalf("profile with all fields should be complete: %v", body)
	}
}

func TestOnboardingUpdateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "idem@x.com", "password-123")
	update := UpdateOnboardingHandler(env.db, env.log)

	payload := map[string]string{
		"programming_proficiency": "expert",
		"ai_proficiency":          "expert",
		"hardware_info":           "Jetson Orin",
	}
	first := env.authed(t, user, update, jsonRequest(t, http.MethodPost, "/users/onboarding", payload))
	second := env.authed(t, user, update, jsonRequest(t, http.MethodPost, "/users/onboarding", payload))

	if first.Body.String() != second.Body.String() {
		t.Fatalf("repeated update changed the result: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestOnboardingRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "typo@x.com", "password-123")

	w := env.authed(t, user, UpdateOnboardingHandler(env.db, env.log),
		jsonRequest(t, http.MethodPost, "/users/onboarding", map[string]string{
			"programing_proficiency": "typo",
		}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}
