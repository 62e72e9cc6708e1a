package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/reelboard/movie-blog-api/internal/adapters/memory/clock"
	mempostrepo "github.com/reelboard/movie-blog-api/internal/adapters/memory/postrepo"
	memuserrepo "github.com/reelboard/movie-blog-api/internal/adapters/memory/userrepo"
	"github.com/reelboard/movie-blog-api/internal/app/posts"
	"github.com/reelboard/movie-blog-api/internal/app/users"
	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
	"github.com/reelboard/movie-blog-api/internal/platform/config"
)

type testEnv struct {
	handler http.Handler
	clock   *memclock.ManualClock
	tokens  *tokens.Service
	posts   *posts.Service
	users   *users.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	tokenSvc := tokens.NewWithClock(config.AuthConfig{
		Secret:   []byte("test-secret"),
		TokenTTL: 24 * time.Hour,
	}, clk)

	postRepo := mempostrepo.NewRepo()
	userRepo := memuserrepo.NewRepo()

	postSvc := posts.NewService(postRepo, clk)
	nextPost, nextComment := 0, 0
	postSvc.SetIDGeneratorsForTest(
		func() domain.PostID {
			nextPost++
			return domain.PostID(fmt.Sprintf("post-%d", nextPost))
		},
		func() domain.CommentID {
			nextComment++
			return domain.CommentID(fmt.Sprintf("comment-%d", nextComment))
		},
	)

	userSvc := users.NewService(userRepo, clk, tokenSvc)
	nextUser := 0
	userSvc.SetIDGeneratorForTest(func() domain.UserID {
		nextUser++
		return domain.UserID(fmt.Sprintf("user-%d", nextUser))
	})
	userSvc.SetBcryptCostForTest(4)

	h := NewRouter(NewServer(postSvc, userSvc), RouterOptions{
		Auth: NewAuthMiddlewares(tokenSvc),
	})

	return &testEnv{handler: h, clock: clk, tokens: tokenSvc, posts: postSvc, users: userSvc}
}

// mint issues a real token against the environment's shared secret.
func (e *testEnv) mint(t *testing.T, subject, email string, admin bool) string {
	t.Helper()
	tok, err := e.tokens.Issue(tokens.Claims{
		Subject: domain.SubjectID(subject),
		Email:   email,
		IsAdmin: admin,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
