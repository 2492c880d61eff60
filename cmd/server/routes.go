package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vedran77/vidtube/internal/config"
	"github.com/vedran77/vidtube/internal/transport/http/handlers"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type routerDeps struct {
	cfg       *config.Config
	tokens    middleware.TokenParser
	wsHandler http.HandlerFunc

	health        *handlers.HealthHandler
	users         *handlers.UserHandler
	videos        *handlers.VideoHandler
	comments      *handlers.CommentHandler
	likes         *handlers.LikeHandler
	subscriptions *handlers.SubscriptionHandler
	playlists     *handlers.PlaylistHandler
	tweets        *handlers.TweetHandler
	dashboard     *handlers.DashboardHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Long-lived connections stay outside the access log and metrics.
	r.Get("/ws", d.wsHandler)
	r.Handle("/metrics", promhttp.Handler())

	auth := middleware.Auth(d.tokens)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger)
		r.Use(middleware.Metrics)
		r.Use(httprate.LimitByIP(d.cfg.Server.RateLimit, time.Minute))

		r.Get("/healthcheck", d.health.Check)

		if d.cfg.Media.Driver == "disk" {
			prefix := mediaPrefix(d.cfg.Media.PublicURL)
			r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(d.cfg.Media.DiskDir))))
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/users", func(r chi.Router) {
				r.Post("/register", d.users.Register)
				r.With(httprate.LimitByIP(d.cfg.Server.LoginRateLimit, time.Minute)).Post("/login", d.users.Login)
				r.Post("/refresh-token", d.users.Refresh)

				r.Group(func(r chi.Router) {
					r.Use(auth)
					r.Post("/logout", d.users.Logout)
					r.Post("/change-password", d.users.ChangePassword)
					r.Get("/current-user", d.users.CurrentUser)
					r.Patch("/update-account", d.users.UpdateAccount)
					r.Patch("/avatar", d.users.UpdateAvatar)
					r.Patch("/cover-image", d.users.UpdateCoverImage)
					r.Delete("/cover-image", d.users.DeleteCoverImage)
					r.Get("/c/{username}", d.users.ChannelProfile)
					r.Get("/history", d.users.WatchHistory)
				})
			})

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", d.videos.List)

				r.Group(func(r chi.Router) {
					r.Use(auth)
					r.Post("/", d.videos.Publish)
					r.Get("/{videoId}", d.videos.Get)
					r.Patch("/{videoId}", d.videos.Update)
					r.Delete("/{videoId}", d.videos.Delete)
					r.Patch("/toggle/publish/{videoId}", d.videos.TogglePublish)
				})
			})

			r.Route("/comments", func(r chi.Router) {
				r.Use(auth)
				r.Get("/{videoId}", d.comments.List)
				r.Post("/{videoId}", d.comments.Add)
				r.Patch("/c/{commentId}", d.comments.Update)
				r.Delete("/c/{commentId}", d.comments.Delete)
			})

			r.Route("/likes", func(r chi.Router) {
				r.Use(auth)
				r.Post("/toggle/v/{videoId}", d.likes.ToggleVideo)
				r.Post("/toggle/c/{commentId}", d.likes.ToggleComment)
				r.Post("/toggle/t/{tweetId}", d.likes.ToggleTweet)
				r.Get("/videos", d.likes.LikedVideos)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Use(auth)
				r.Post("/c/{channelId}", d.subscriptions.Toggle)
				r.Get("/c/{channelId}", d.subscriptions.Subscribers)
				r.Get("/u/{subscriberId}", d.subscriptions.SubscribedChannels)
			})

			r.Route("/playlists", func(r chi.Router) {
				r.Use(auth)
				r.Post("/", d.playlists.Create)
				r.Get("/user/{userId}", d.playlists.ListByUser)
				r.Patch("/add/{videoId}/{playlistId}", d.playlists.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", d.playlists.RemoveVideo)
				r.Get("/{playlistId}", d.playlists.Get)
				r.Patch("/{playlistId}", d.playlists.Update)
				r.Delete("/{playlistId}", d.playlists.Delete)
			})

			r.Route("/tweets", func(r chi.Router) {
				r.Use(auth)
				r.Post("/", d.tweets.Create)
				r.Get("/user/{userId}", d.tweets.ListByUser)
				r.Patch("/{tweetId}", d.tweets.Update)
				r.Delete("/{tweetId}", d.tweets.Delete)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(auth)
				r.Get("/stats", d.dashboard.Stats)
				r.Get("/videos", d.dashboard.Videos)
			})
		})
	})

	return r
}

// mediaPrefix is the URL path the disk store's public URLs live under.
func mediaPrefix(publicURL string) string {
	prefix := "/media"
	if u, err := url.Parse(publicURL); err == nil && u.Path != "" && u.Path != "/" {
		prefix = u.Path
	}
	return strings.TrimSuffix(prefix, "/")
}
