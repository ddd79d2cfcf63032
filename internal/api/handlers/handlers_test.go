package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cyberhud/hud-docs-api/internal/api/middleware"
	"github.com/cyberhud/hud-docs-api/internal/auth/broker"
	"github.com/cyberhud/hud-docs-api/internal/auth/session"
	"github.com/cyberhud/hud-docs-api/internal/auth/state"
	"github.com/cyberhud/hud-docs-api/internal/content"
	"github.com/cyberhud/hud-docs-api/internal/db/models"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

type testEnv struct {
	db       *gorm.DB
	broker   *broker.Broker
	sessions *session.Codec
	states   *state.Codec
	cache    *content.Manager
	log      *logging.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = database.AutoMigrate(
		&models.User{}, &models.UserProfile{},
		&models.PersonalizedPage{}, &models.LessonSummary{}, &models.LessonTranslation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := logging.NewNop()
	return &testEnv{
		db:       database,
		broker:   broker.New(database, log),
		sessions: session.NewCodec("test-secret", time.Hour, false),
		states:   state.NewCodec("test-secret"),
		cache:    content.NewManager(database, log),
		log:      log,
	}
}

// signUp registers a user through the broker and returns the record.
func (e *testEnv) signUp(t *testing.T, email, password string) *models.User {
	t.Helper()
	user, err := e.broker.CreatePasswordIdentity(context.Background(), email, password, "Test User")
	if err != nil {
		t.Fatalf("create identity: %v", err)
	}
	return user
}

// authed wraps a handler in the session middleware and serves the request
// with a valid session cookie for user.
func (e *testEnv) authed(t *testing.T, user *models.User, handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	token, err := e.sessions.Mint(user)
	if err != nil {
		t.Fatalf("mint session: %v", err)
	}
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

	w := httptest.NewRecorder()
	middleware.SessionAuth(e.sessions, e.db)(handler).ServeHTTP(w, r)
	return w
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return decoded
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}
