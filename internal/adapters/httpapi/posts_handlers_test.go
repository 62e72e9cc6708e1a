package httpapi

import (
	"net/http"
	"testing"
)

func TestAddPost_ShapesResponse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tok := env.mint(t, "user-1", "a@example.com", false)

	rec := env.do(t, http.MethodPost, "/posts/addPost", tok, map[string]any{
		"title":              "Heat",
		"content":            "Mann's masterpiece.",
		"author_information": "pauline",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Post Added Successfully" {
		t.Fatalf("message: got %q", body["message"])
	}
	post, ok := body["post"].(map[string]any)
	if !ok {
		t.Fatalf("post missing: %v", body)
	}
	if post["_id"] == "" || post["title"] != "Heat" || post["author_information"] != "pauline" {
		t.Fatalf("unexpected post projection: %v", post)
	}
	if _, ok := post["creationAdded"]; !ok {
		t.Fatalf("creationAdded missing: %v", post)
	}
	if cs, ok := post["comments"].([]any); !ok || len(cs) != 0 {
		t.Fatalf("expected empty comments array, got %v", post["comments"])
	}
}

func TestAddPost_ValidationErrorEnvelope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tok := env.mint(t, "user-1", "a@example.com", false)

	rec := env.do(t, http.MethodPost, "/posts/addPost", tok, map[string]any{
		"title": "   ", "content": "c", "author_information": "a",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("error envelope missing: %v", body)
	}
	if errObj["message"] != "Title is Required" || errObj["errorCode"] != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error: %v", errObj)
	}
}

func TestUpdatePost_PartialBodyAndOwnership(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	owner := env.mint(t, "pauline", "p@example.com", false)
	stranger := env.mint(t, "bob", "b@example.com", false)
	admin := env.mint(t, "root", "r@example.com", true)

	rec := env.do(t, http.MethodPost, "/posts/addPost", owner, map[string]any{
		"title": "Heat", "content": "c", "author_information": "pauline",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed post: %d %s", rec.Code, rec.Body.String())
	}
	postID := decodeBody(t, rec)["post"].(map[string]any)["_id"].(string)

	// Non-owner, non-admin is forbidden.
	rec = env.do(t, http.MethodPatch, "/posts/updatePost/"+postID, stranger, map[string]any{"title": "Hijacked"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger update: got %d want 403", rec.Code)
	}

	// Owner patches only title; other fields survive.
	rec = env.do(t, http.MethodPatch, "/posts/updatePost/"+postID, owner, map[string]any{"title": "Heat (1995)"})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Post Updated Successfully" {
		t.Fatalf("message: got %q", body["message"])
	}
	updated := body["updatedPost"].(map[string]any)
	if updated["title"] != "Heat (1995)" || updated["content"] != "c" || updated["author_information"] != "pauline" {
		t.Fatalf("unexpected updated post: %v", updated)
	}

	// Explicit null is a validation error, required fields cannot be cleared.
	rec = env.do(t, http.MethodPatch, "/posts/updatePost/"+postID, owner, map[string]any{"content": nil})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("null content: got %d want 400", rec.Code)
	}

	// Admin may update someone else's post.
	rec = env.do(t, http.MethodPatch, "/posts/updatePost/"+postID, admin, map[string]any{"content": "restored"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: got %d body=%s", rec.Code, rec.Body.String())
	}

	// Unknown post is a 404.
	rec = env.do(t, http.MethodPatch, "/posts/updatePost/nope", owner, map[string]any{"title": "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing post: got %d want 404", rec.Code)
	}
}

func TestDeletePost_OwnershipAndMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	owner := env.mint(t, "pauline", "p@example.com", false)
	stranger := env.mint(t, "bob", "b@example.com", false)

	rec := env.do(t, http.MethodPost, "/posts/addPost", owner, map[string]any{
		"title": "Heat", "content": "c", "author_information": "pauline",
	})
	postID := decodeBody(t, rec)["post"].(map[string]any)["_id"].(string)

	rec = env.do(t, http.MethodDelete, "/posts/deletePost/"+postID, stranger, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: got %d want 403", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/posts/deletePost/"+postID, owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: got %d body=%s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Post deleted successfully" {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/posts/getPosts/"+postID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d want 404", rec.Code)
	}
}

func TestGetPosts_EmptyAndPopulated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/posts/getPosts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "No posts found." {
		t.Fatalf("empty catalog: got %s", rec.Body.String())
	}

	tok := env.mint(t, "u", "u@example.com", false)
	for _, title := range []string{"Heat", "Alien"} {
		rec := env.do(t, http.MethodPost, "/posts/addPost", tok, map[string]any{
			"title": title, "content": "c", "author_information": "u",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %q: %d", title, rec.Code)
		}
	}

	rec = env.do(t, http.MethodGet, "/posts/getPosts", "", nil)
	body := decodeBody(t, rec)
	ps, ok := body["posts"].([]any)
	if !ok || len(ps) != 2 {
		t.Fatalf("unexpected posts: %v", body)
	}
	// Insertion order.
	if ps[0].(map[string]any)["title"] != "Heat" || ps[1].(map[string]any)["title"] != "Alien" {
		t.Fatalf("unexpected order: %v", ps)
	}
}

func TestAddComment_AnonymousAndAuthenticated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tok := env.mint(t, "user-9", "u@example.com", false)

	rec := env.do(t, http.MethodPost, "/posts/addPost", tok, map[string]any{
		"title": "Heat", "content": "c", "author_information": "u",
	})
	postID := decodeBody(t, rec)["post"].(map[string]any)["_id"].(string)

	// Anonymous comment: no Authorization header at all.
	rec = env.do(t, http.MethodPatch, "/posts/addComment/"+postID, "", map[string]any{"comment": "great"})
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous comment: got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Comment Added Successfully." {
		t.Fatalf("message: got %q", body["message"])
	}
	post := body["Post"].(map[string]any)
	cs := post["comments"].([]any)
	if len(cs) != 1 {
		t.Fatalf("comments: %v", cs)
	}
	if _, ok := cs[0].(map[string]any)["userId"]; ok {
		t.Fatalf("anonymous comment must omit userId: %v", cs[0])
	}

	// Authenticated comment carries the caller's id.
	rec = env.do(t, http.MethodPatch, "/posts/addComment/"+postID, tok, map[string]any{"comment": "owned"})
	if rec.Code != http.StatusOK {
		t.Fatalf("owned comment: got %d", rec.Code)
	}
	cs = decodeBody(t, rec)["Post"].(map[string]any)["comments"].([]any)
	if len(cs) != 2 {
		t.Fatalf("comments: %v", cs)
	}
	if cs[1].(map[string]any)["userId"] != "user-9" {
		t.Fatalf("expected userId on owned comment: %v", cs[1])
	}

	// Blank body is rejected and the sequence is untouched.
	rec = env.do(t, http.MethodPatch, "/posts/addComment/"+postID, "", map[string]any{"comment": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank comment: got %d want 400", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/posts/getComment/"+postID, "", nil)
	got := decodeBody(t, rec)["comments"].([]any)
	if len(got) != 2 {
		t.Fatalf("sequence changed by rejected comment: %v", got)
	}
}

func TestGetComments_ProjectionOmitsUserIDs(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tok := env.mint(t, "user-9", "u@example.com", false)

	rec := env.do(t, http.MethodPost, "/posts/addPost", tok, map[string]any{
		"title": "Heat", "content": "c", "author_information": "u",
	})
	postID := decodeBody(t, rec)["post"].(map[string]any)["_id"].(string)
	env.do(t, http.MethodPatch, "/posts/addComment/"+postID, tok, map[string]any{"comment": "hi"})

	rec = env.do(t, http.MethodGet, "/posts/getComment/"+postID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	cs := decodeBody(t, rec)["comments"].([]any)
	if len(cs) != 1 {
		t.Fatalf("comments: %v", cs)
	}
	c := cs[0].(map[string]any)
	if c["comment"] != "hi" || c["_id"] == "" {
		t.Fatalf("unexpected projection: %v", c)
	}
	if _, ok := c["userId"]; ok {
		t.Fatalf("comment listing must not expose userId: %v", c)
	}
}

func TestDeleteComment_AdminOnlyAndNotFoundShapes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.mint(t, "user-1", "u@example.com", false)
	admin := env.mint(t, "root", "r@example.com", true)

	rec := env.do(t, http.MethodPost, "/posts/addPost", user, map[string]any{
		"title": "Heat", "content": "c", "author_information": "u",
	})
	postID := decodeBody(t, rec)["post"].(map[string]any)["_id"].(string)
	rec = env.do(t, http.MethodPatch, "/posts/addComment/"+postID, "", map[string]any{"comment": "x"})
	cs := decodeBody(t, rec)["Post"].(map[string]any)["comments"].([]any)
	commentID := cs[0].(map[string]any)["_id"].(string)

	rec = env.do(t, http.MethodDelete, "/posts/deleteComment/"+postID+"/"+commentID, user, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin delete: got %d want 403", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/posts/deleteComment/"+postID+"/"+commentID, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete: got %d body=%s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Comment Deleted Successfully" {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}

	// Comment gone, post still there.
	rec = env.do(t, http.MethodDelete, "/posts/deleteComment/"+postID+"/"+commentID, admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: got %d want 404", rec.Code)
	}
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	if errObj["message"] != "Comment not found" {
		t.Fatalf("unexpected error: %v", errObj)
	}

	rec = env.do(t, http.MethodDelete, "/posts/deleteComment/nope/"+commentID, admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing post: got %d want 404", rec.Code)
	}
}
