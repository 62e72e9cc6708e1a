package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"

	"github.com/reelboard/movie-blog-api/internal/app/posts"
	"github.com/reelboard/movie-blog-api/internal/app/users"
	"github.com/reelboard/movie-blog-api/internal/domain"
)

// Server is the HTTP adapter: request decoding, claims extraction, and
// response shaping around the application services.
type Server struct {
	Posts *posts.Service
	Users *users.Service
}

func NewServer(postsSvc *posts.Service, usersSvc *users.Service) *Server {
	return &Server{Posts: postsSvc, Users: usersSvc}
}

type addPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author_information"`
}

func (s *Server) AddPost(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed. No Token"})
		return
	}

	var req addPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	p, err := s.Posts.CreatePost(r.Context(), claims, posts.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Post Added Successfully",
		"post":    postProjectionFromDomain(p),
	})
}

// updatePostRequest uses tri-state fields: an omitted field keeps its current
// value, an explicit null is a validation error (every field here is required
// at the document level), a value replaces.
type updatePostRequest struct {
	Title   nullable.Nullable[string] `json:"title"`
	Content nullable.Nullable[string] `json:"content"`
	Author  nullable.Nullable[string] `json:"author_information"`
}

func optionalFromNullable(n nullable.Nullable[string]) posts.Optional[string] {
	if !n.IsSpecified() {
		return posts.Unspecified[string]()
	}
	if n.IsNull() {
		return posts.Null[string]()
	}
	v, _ := n.Get()
	return posts.Some(v)
}

func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed. No Token"})
		return
	}
	postID := domain.PostID(chi.URLParam(r, "postId"))

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	p, err := s.Posts.UpdatePost(r.Context(), claims, postID, posts.UpdatePostInput{
		Title:   optionalFromNullable(req.Title),
		Content: optionalFromNullable(req.Content),
		Author:  optionalFromNullable(req.Author),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Post Updated Successfully",
		"updatedPost": postProjectionFromDomain(p),
	})
}

func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed. No Token"})
		return
	}
	postID := domain.PostID(chi.URLParam(r, "postId"))

	if err := s.Posts.DeletePost(r.Context(), claims, postID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post deleted successfully"})
}

func (s *Server) GetPosts(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Posts.ListPosts(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if len(ps) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No posts found."})
		return
	}
	out := make([]PostProjection, 0, len(ps))
	for _, p := range ps {
		out = append(out, postProjectionFromDomain(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": out})
}

func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := domain.PostID(chi.URLParam(r, "postId"))
	p, err := s.Posts.GetPost(r.Context(), postID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postProjectionFromDomain(p))
}

type addCommentRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	postID := domain.PostID(chi.URLParam(r, "postId"))

	// Anonymous comments are allowed: claims are attached only when the
	// optional-auth middleware verified a presented token.
	var userID *domain.UserID
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		id := domain.UserID(claims.Subject)
		userID = &id
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	p, err := s.Posts.AddComment(r.Context(), userID, postID, req.Comment)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Comment Added Successfully.",
		"Post":    postProjectionFromDomain(p),
	})
}

func (s *Server) GetComments(w http.ResponseWriter, r *http.Request) {
	postID := domain.PostID(chi.URLParam(r, "postId"))
	cs, err := s.Posts.ListComments(r.Context(), postID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]CommentOnlyProjection, 0, len(cs))
	for _, c := range cs {
		out = append(out, CommentOnlyProjection{ID: string(c.ID), Body: c.Body})
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out})
}

func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID := domain.PostID(chi.URLParam(r, "postId"))
	commentID := domain.CommentID(chi.URLParam(r, "commentId"))

	if err := s.Posts.DeleteComment(r.Context(), postID, commentID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Comment Deleted Successfully"})
}
