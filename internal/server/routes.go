package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, env Env) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("QuizBoard API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(env.Logger, env.DB, env.Redis))

	r.Post("/api/auth/signup", handleSignup(env.Users, env.Sessions))
	r.Post("/api/auth/login", handleLogin(env.Users, env.Sessions))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(env.Sessions))

		r.Post("/api/auth/logout", handleLogout(env.Sessions))
		r.Get("/api/auth/me", handleMe(env.Users))

		r.Get("/api/catalog/categories", handleListCategories(env.Catalog))
		r.Get("/api/catalog/questions", handleListQuestions(env.Catalog))

		r.Route("/api/rounds", func(r chi.Router) {
			r.Post("/", handleCreateRound(env.Rounds, env.Cache, env.Catalog))
			r.Get("/", handleListRounds(env.Rounds))

			r.Route("/{roundID}", func(r chi.Router) {
				r.Get("/", handleGetRound(env.Rounds, env.Cache))
				r.Get("/board", handleBoard(env.Rounds, env.Cache, env.Catalog))
				r.Post("/answer", handleAnswer(env.Rounds, env.Cache, env.Catalog, env.Broker))
				r.Post("/end", handleEndRound(env.Rounds, env.Cache, env.Broker))
				r.Get("/events", handleEvents(env.Rounds, env.Broker))
				r.Get("/qr", handleRoundQR(env.Rounds, env.BaseURL))
			})
		})
	})

	if env.SPADir != "" {
		if info, err := os.Stat(env.SPADir); err == nil && info.IsDir() {
			env.Logger.Info("serving SPA", "dir", env.SPADir)
			r.NotFound(handleSPA(env.SPADir))
		}
	}
}
