package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/reelboard/movie-blog-api/internal/adapters/httpapi"
	memclock "github.com/reelboard/movie-blog-api/internal/adapters/memory/clock"
	mempostrepo "github.com/reelboard/movie-blog-api/internal/adapters/memory/postrepo"
	memuserrepo "github.com/reelboard/movie-blog-api/internal/adapters/memory/userrepo"
	pgpostrepo "github.com/reelboard/movie-blog-api/internal/adapters/postgres/postrepo"
	postgres_testutil "github.com/reelboard/movie-blog-api/internal/adapters/postgres/testutil"
	pguserrepo "github.com/reelboard/movie-blog-api/internal/adapters/postgres/userrepo"
	"github.com/reelboard/movie-blog-api/internal/adapters/sqlite"
	sqlpostrepo "github.com/reelboard/movie-blog-api/internal/adapters/sqlite/postrepo"
	sqluserrepo "github.com/reelboard/movie-blog-api/internal/adapters/sqlite/userrepo"
	"github.com/reelboard/movie-blog-api/internal/app/posts"
	"github.com/reelboard/movie-blog-api/internal/app/users"
	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
	"github.com/reelboard/movie-blog-api/internal/platform/config"
	postrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
	userrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/userrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	tokens  *tokens.Service
	clock   *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		postRepo postrepoport.Repository
		userRepo userrepoport.Repository
	)
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		postRepo = pgpostrepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
	case backendSQLite:
		db, err := sqlite.Open(":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		postRepo = sqlpostrepo.NewRepo(db)
		userRepo = sqluserrepo.NewRepo(db)
	case backendMemory:
		postRepo = mempostrepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
	default:
		t.Fatalf("unknown backend %q", b)
	}

	tokenSvc := tokens.NewWithClock(config.AuthConfig{
		Secret:    []byte("itest-secret"),
		TokenTTL:  24 * time.Hour,
		ClockSkew: 30 * time.Second,
	}, clk)

	postSvc := posts.NewService(postRepo, clk)
	userSvc := users.NewService(userRepo, clk, tokenSvc)
	userSvc.SetBcryptCostForTest(4)

	h := httpapi.NewRouter(httpapi.NewServer(postSvc, userSvc), httpapi.RouterOptions{
		Auth: httpapi.NewAuthMiddlewares(tokenSvc),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		tokens:  tokenSvc,
		clock:   clk,
	}
}

func (s *testServer) mint(t *testing.T, subject, email string, admin bool) string {
	t.Helper()
	tok, err := s.tokens.Issue(tokens.Claims{
		Subject: domain.SubjectID(subject),
		Email:   email,
		IsAdmin: admin,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (s *testServer) doJSON(t *testing.T, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, string(raw), err)
		}
	}
	return resp.StatusCode, decoded
}

func requireStatus(t *testing.T, got, want int, body map[string]any) {
	t.Helper()
	if got != want {
		t.Fatalf("status: got %d want %d (body %v)", got, want, body)
	}
}
