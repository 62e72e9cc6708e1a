package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries the middleware variants the router wires per route.
type RouterOptions struct {
	Auth AuthMiddlewares
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: route wiring and per-route guards live
// here; request decoding and response shaping live in the handlers; every
// decision lives in the app services.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint for infra checks; not part of the SPA contract.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	auth := opts.Auth

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.With(auth.Require).Get("/details", s.UserDetails)
	})

	// Paths mirror the contract the SPA consumes, verb-in-path names and all.
	r.Route("/posts", func(r chi.Router) {
		r.With(auth.Require).Post("/addPost", s.AddPost)
		r.With(auth.Require).Patch("/updatePost/{postId}", s.UpdatePost)
		r.With(auth.Require).Delete("/deletePost/{postId}", s.DeletePost)
		r.Get("/getPosts", s.GetPosts)
		r.Get("/getPosts/{postId}", s.GetPost)
		r.With(auth.Optional).Patch("/addComment/{postId}", s.AddComment)
		r.Get("/getComment/{postId}", s.GetComments)
		r.With(auth.Require, auth.Admin).Delete("/deleteComment/{postId}/{commentId}", s.DeleteComment)
	})

	return r
}
