// Package server assembles the HTTP router of the review-links API.
package server

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/handler"
	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/metrics"
	"github.com/atinyakov/go-review-links/internal/middleware"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Links    service.LinkServiceIface
	Feedback service.FeedbackServiceIface
	Auth     service.AuthIface
	Review   handler.ReviewFlow
	Logger   *zap.Logger

	// TrustedSubnet guards the setup endpoint. Empty disables it.
	TrustedSubnet  string
	// TrustedProxies may set X-Real-IP for the subnet check.
	TrustedProxies []*net.IPNet
	// SecureCookies marks session cookies Secure.
	SecureCookies  bool
}

func Init(d Deps) *chi.Mux {
	metrics.Register()

	links := handler.NewLinks(d.Links, d.Logger)
	feedback := handler.NewFeedback(d.Feedback, d.Logger)
	auth := handler.NewAuth(d.Auth, d.SecureCookies, d.Logger)
	review := handler.NewReview(d.Review, d.Logger)

	requireSession := middleware.RequireSession(d.Auth)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(d.Logger))
	r.Use(middleware.WithMetrics)

	// promhttp negotiates its own compression.
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithGzipRequest)
		r.Use(middleware.WithGzipResponse)

		r.Get("/ping", links.Ping)

		r.Route("/api/links", func(r chi.Router) {
			r.Get("/", links.List)
			r.Get("/{slug}", links.BySlug)

			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Post("/", links.Create)
				r.Patch("/", links.Update)
				r.Delete("/", links.Delete)
			})
		})

		r.Post("/api/feedback", feedback.Create)

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.With(requireSession).Get("/session", auth.Session)
			r.With(middleware.WithSubnet(d.TrustedSubnet, d.TrustedProxies, d.Logger)).Post("/setup", auth.Setup)
		})

		r.Route("/api/review/{slug}", func(r chi.Router) {
			r.Get("/", review.Start)
			r.Post("/rating", review.Rate)
			r.Post("/feedback", review.Submit)
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method Not Allowed"}`))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Route not found"}`))
	})

	return r
}
