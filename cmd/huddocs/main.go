package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cyberhud/hud-docs-api/internal/ai"
	"github.com/cyberhud/hud-docs-api/internal/api/handlers"
	"github.com/cyberhud/hud-docs-api/internal/api/middleware"
	"github.com/cyberhud/hud-docs-api/internal/auth/broker"
	"github.com/cyberhud/hud-docs-api/internal/auth/provider"
	"github.com/cyberhud/hud-docs-api/internal/auth/session"
	"github.com/cyberhud/hud-docs-api/internal/auth/state"
	"github.com/cyberhud/hud-docs-api/internal/config"
	"github.com/cyberhud/hud-docs-api/internal/content"
	"github.com/cyberhud/hud-docs-api/internal/db"
	"github.com/cyberhud/hud-docs-api/internal/logging"
	"github.com/cyberhud/hud-docs-api/internal/rag"
	"github.com/cyberhud/hud-docs-api/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Init(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}

	// Identity stack.
	states := state.NewCodec(cfg.SecretKey)
	sessions := session.NewCodec(cfg.SecretKey, cfg.SessionTTL, cfg.IsProduction())
	identities := broker.New(database, logger)

	providers := map[string]handlers.OAuthProvider{}
	if cfg.GitHubClientID != "" {
		providers["github"] = provider.GitHub(cfg.GitHubClientID, cfg.GitHubClientSecret,
			cfg.BackendURL+"/auth/callback/github")
	}
	if cfg.GoogleClientID != "" {
		providers["google"] = provider.Google(cfg.GoogleClientID, cfg.GoogleClientSecret,
			cfg.BackendURL+"/auth/callback/google")
	}

	// Generation stack.
	skills, err := ai.LoadSkills(cfg.SkillsDir)
	if err != nil {
		logger.Fatal("failed to load skills", "dir", cfg.SkillsDir, "error", err)
	}
	logger.Info("loaded skills", "names", skills.Names())
	aiClient := ai.NewClient(cfg.GeminiAPIKey, skills, logger)
	cache := content.NewManager(database, logger)

	qdrant := rag.NewQdrantClient(cfg.QdrantHost, cfg.QdrantAPIKey, cfg.QdrantCollection, logger)
	drone := rag.NewDrone(aiClient, aiClient, qdrant, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	requireSession := middleware.SessionAuth(sessions, database)

	r.Get("/healthz", handlers.HealthHandler(database))

	// OAuth callbacks live outside /api: providers redirect the browser here.
	for name, p := range providers {
		r.Get("/auth/callback/"+name, handlers.OAuthCallbackHandler(
			p, states, identities, sessions, cfg.FrontendURL, logger))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up/email", handlers.SignUpHandler(identities, sessions, logger))
			r.Post("/sign-in/email", handlers.SignInHandler(identities, sessions, logger))
			r.Post("/sign-out", handlers.SignOutHandler(sessions))
			for name, p := range providers {
				r.Get("/sign-in/"+name, handlers.OAuthLoginHandler(p, states))
			}
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/summarize", handlers.SummarizeHandler(aiClient, cache, logger))
			r.Post("/translate", handlers.TranslateHandler(aiClient, cache, logger))
			r.Post("/personalize", handlers.PersonalizeHandler(aiClient, cache, logger))
			r.Post("/personalize-chapter", handlers.PersonalizeChapterHandler(aiClient, cache, logger))
		})

		r.With(requireSession).Post("/drone/chat", handlers.DroneChatHandler(drone))
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/me", handlers.MeHandler())
		r.Get("/me/onboarding", handlers.GetOnboardingHandler(database, logger))
		r.Post("/onboarding", handlers.UpdateOnboardingHandler(database, logger))
	})

	logger.Info("hud-docs-api starting",
		"version", version.Version,
		"addr", cfg.Addr(),
		"environment", cfg.Environment,
		"providers", len(providers),
		"knowledge_base", qdrant != nil)

	if err := http.ListenAndServe(cfg.Addr(), r); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}
