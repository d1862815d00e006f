package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/daylansit/social-blog/internal/auth"
	"github.com/daylansit/social-blog/internal/config"
	"github.com/daylansit/social-blog/internal/handlers"
	"github.com/daylansit/social-blog/internal/middleware"
	"github.com/daylansit/social-blog/internal/repo"
	"github.com/daylansit/social-blog/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repos, services, and handlers onto the full middleware
// chain. Kept separate from main so integration tests can build the exact
// production router around a test database.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(false))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxUploadBytes))

	users := repo.NewUserRepo(db)
	posts := repo.NewPostRepo(db)
	tokens := auth.New(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	images := &storage.Images{Dir: cfg.ImageDir}

	authHandler := &handlers.AuthHandler{Users: users, Tokens: tokens}
	feedHandler := &handlers.FeedHandler{Posts: posts, Users: users, Images: images}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Stored images are served read-only from the image directory.
	r.Handle("/images/*", http.StripPrefix("/images/",
		http.FileServer(http.Dir(cfg.ImageDir))))

	authLimiter := middleware.AuthRateLimiter()
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Put("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWT(tokens))
			r.Get("/status", authHandler.GetStatus)
			r.Patch("/status", authHandler.UpdateStatus)
		})
	})

	r.Route("/feed", func(r chi.Router) {
		r.Use(middleware.JWT(tokens))
		r.Get("/posts", feedHandler.GetPosts)
		r.Post("/post", feedHandler.CreatePost)
		r.Get("/post/{postId}", feedHandler.GetPost)
		r.Put("/post/{postId}", feedHandler.UpdatePost)
		r.Delete("/post/{postId}", feedHandler.DeletePost)
	})

	return r
}
