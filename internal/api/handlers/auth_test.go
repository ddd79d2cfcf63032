package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignUpSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	handler := SignUpHandler(env.broker, env.sessions, env.log)

	w := httptest.NewRecorder()
	handler(w, jsonRequest(t, http.MethodPost, "/api/auth/sign-up/email", map[string]string{
		"email":    "new@x.com",
		"password": "hunter2-long",
		"name":     "New User",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(w)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	if user["email"] != "new@x.com" || user["email_verified"] != false {
		t.Fatalf("unexpected user body: %v", user)
	}
	if _, leaked := user["hashed_password"]; leaked {
		t.Fatal("password hash must not appear in responses")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "dup@x.com", "first-password")

	handler := SignUpHandler(env.broker, env.sessions, env.log)
	w := httptest.NewRecorder()
	handler(w, jsonRequest(t, http.MethodPost, "/api/auth/sign-up/email", map[string]string{
		"email":    "dup@x.com",
		"password": "second-password",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	env := newTestEnv(t)
	handler := SignUpHandler(env.broker, env.sessions, env.log)

	w := httptest.NewRecorder()
	handler(w, jsonRequest(t, http.MethodPost, "/api/auth/sign-up/email", map[string]string{
		"email": "no-password@x.com",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSignInUniformFailures(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "known@x.com", "correct-password")
	handler := SignInHandler(env.broker, env.sessions, env.log)

	wrongPassword := httptest.NewRecorder()
	handler(wrongPassword, jsonRequest(t, http.MethodPost, "/api/auth/sign-in/email", map[string]string{
		"email": "known@x.com", "password": "wrong",
	}))
	unknownEmail := httptest.NewRecorder()
	handler(unknownEmail, jsonRequest(t, http.MethodPost, "/api/auth/sign-in/email", map[string]string{
		"email": "unknown@x.com", "password": "wrong",
	}))

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	// Failure bodies must not distinguish the two cases.
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestSignInSuccess(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "known@x.com", "correct-password")
	handler := SignInHandler(env.broker, env.sessions, env.log)

	w := httptest.NewRecorder()
	handler(w, jsonRequest(t, http.MethodPost, "/api/auth/sign-in/email", map[string]string{
		"email": "known@x.com", "password": "correct-password",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(w)
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	sess, ok := env.sessions.Validate(cookie.Value)
	if !ok || sess.UserID != user.ID || sess.TenantID != user.TenantID {
		t.Fatalf("cookie does not carry the user's session: %+v", sess)
	}
}

func TestSignOutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	handler := SignOutHandler(env.sessions)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil))

	cookie := sessionCookie(w)
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected expired empty cookie, got %+v", cookie)
	}
}
