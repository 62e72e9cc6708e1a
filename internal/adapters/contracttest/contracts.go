// Package contracttest holds behavioral suites every storage backend must
// pass. Each adapter package wires its own factory into these suites from a
// small contract_test.go, so memory, sqlite and postgres are held to the same
// semantics.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reelboard/movie-blog-api/internal/domain"
	postrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
	userrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type PostRepoFactory func(t *testing.T) (postrepoport.Repository, CleanupFunc)
type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)

func RunPostRepo(t *testing.T, newRepo PostRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.PostID(uuid.NewString())
	if err := repo.Create(ctx, postrepoport.Post{
		ID:        aID,
		Title:     "Heat",
		Content:   "Mann's masterpiece.",
		Author:    "pauline",
		CreatedAt: now,
		Comments:  []postrepoport.Comment{},
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}

	// Duplicate ID is rejected.
	if err := repo.Create(ctx, postrepoport.Post{
		ID:        aID,
		Title:     "Heat again",
		Content:   "dup",
		Author:    "pauline",
		CreatedAt: now,
	}); !errors.Is(err, postrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Heat" || got.Author != "pauline" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected post: %+v", got)
	}
	if len(got.Comments) != 0 {
		t.Fatalf("expected no comments, got %d", len(got.Comments))
	}

	// Insertion-order listing.
	bID := domain.PostID(uuid.NewString())
	if err := repo.Create(ctx, postrepoport.Post{
		ID:        bID,
		Title:     "Alien",
		Content:   "In space no one can hear you scream.",
		Author:    "roger",
		CreatedAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != aID || all[1].ID != bID {
		t.Fatalf("unexpected list order: %#v", all)
	}

	// Update rewrites post fields only.
	got.Title = "Heat (1995)"
	got.Comments = nil
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil || got.Title != "Heat (1995)" {
		t.Fatalf("expected updated title, got %+v err=%v", got, err)
	}
	if err := repo.Update(ctx, postrepoport.Post{ID: domain.PostID(uuid.NewString()), Title: "x"}); !errors.Is(err, postrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of missing post, got %v", err)
	}

	// Comments append in order; anonymous comments carry no user id.
	userA := domain.UserID(uuid.NewString())
	c1 := postrepoport.Comment{ID: domain.CommentID(uuid.NewString()), UserID: &userA, Body: "first"}
	c2 := postrepoport.Comment{ID: domain.CommentID(uuid.NewString()), Body: "second"}
	updated, err := repo.AddComment(ctx, aID, c1)
	if err != nil {
		t.Fatalf("AddComment c1: %v", err)
	}
	if len(updated.Comments) != 1 || updated.Comments[0].ID != c1.ID {
		t.Fatalf("unexpected comments after c1: %#v", updated.Comments)
	}
	updated, err = repo.AddComment(ctx, aID, c2)
	if err != nil {
		t.Fatalf("AddComment c2: %v", err)
	}
	if len(updated.Comments) != 2 || updated.Comments[0].Body != "first" || updated.Comments[1].Body != "second" {
		t.Fatalf("unexpected comment order: %#v", updated.Comments)
	}
	if updated.Comments[0].UserID == nil || *updated.Comments[0].UserID != userA {
		t.Fatalf("expected owned first comment, got %#v", updated.Comments[0])
	}
	if updated.Comments[1].UserID != nil {
		t.Fatalf("expected anonymous second comment, got %#v", updated.Comments[1])
	}

	// AddComment on a missing post reports ErrNotFound.
	if _, err := repo.AddComment(ctx, domain.PostID(uuid.NewString()), postrepoport.Comment{
		ID:   domain.CommentID(uuid.NewString()),
		Body: "lost",
	}); !errors.Is(err, postrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// RemoveComment distinguishes missing post from missing comment.
	if err := repo.RemoveComment(ctx, domain.PostID(uuid.NewString()), c1.ID); !errors.Is(err, postrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}
	if err := repo.RemoveComment(ctx, aID, domain.CommentID(uuid.NewString())); !errors.Is(err, postrepoport.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	if err := repo.RemoveComment(ctx, aID, c1.ID); err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil || len(got.Comments) != 1 || got.Comments[0].ID != c2.ID {
		t.Fatalf("expected only c2 left, got %#v err=%v", got.Comments, err)
	}
	// Removing twice fails the second time.
	if err := repo.RemoveComment(ctx, aID, c1.ID); !errors.Is(err, postrepoport.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound on double remove, got %v", err)
	}

	// Delete removes the post and its comments.
	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, postrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, aID); !errors.Is(err, postrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
	all, err = repo.List(ctx)
	if err != nil || len(all) != 1 || all[0].ID != bID {
		t.Fatalf("expected only b left, got %#v err=%v", all, err)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:           aID,
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "alice@example.com" || !got.IsAdmin {
		t.Fatalf("unexpected user: %+v", got)
	}

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != aID {
		t.Fatalf("GetByEmail: %+v err=%v", got, err)
	}

	// Email uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:           domain.UserID(uuid.NewString()),
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$otherhashotherhashother",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound by id, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound by email, got %v", err)
	}
}
