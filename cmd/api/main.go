package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelboard/movie-blog-api/internal/adapters/httpapi"
	mempostrepo "github.com/reelboard/movie-blog-api/internal/adapters/memory/postrepo"
	memuserrepo "github.com/reelboard/movie-blog-api/internal/adapters/memory/userrepo"
	postgres "github.com/reelboard/movie-blog-api/internal/adapters/postgres"
	pgpostrepo "github.com/reelboard/movie-blog-api/internal/adapters/postgres/postrepo"
	pguserrepo "github.com/reelboard/movie-blog-api/internal/adapters/postgres/userrepo"
	"github.com/reelboard/movie-blog-api/internal/adapters/sqlite"
	sqlpostrepo "github.com/reelboard/movie-blog-api/internal/adapters/sqlite/postrepo"
	sqluserrepo "github.com/reelboard/movie-blog-api/internal/adapters/sqlite/userrepo"
	"github.com/reelboard/movie-blog-api/internal/app/posts"
	"github.com/reelboard/movie-blog-api/internal/app/users"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
	platformclock "github.com/reelboard/movie-blog-api/internal/platform/clock"
	"github.com/reelboard/movie-blog-api/internal/platform/config"
	postrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
	userrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/userrepo"
)

func main() {
	port := getenv("PORT", "8080")
	clk := platformclock.NewSystemClock()

	// Auth configuration:
	// - Production: require AUTH_TOKEN_SECRET and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass token verification and use X-Debug-Subject
	authMode := getenv("AUTH_MODE", "token")
	var (
		authMW   httpapi.AuthMiddlewares
		tokenSvc *tokens.Service
	)
	switch authMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddlewares(getenv("DEV_SUBJECT", "dev|local"))
		// Login still issues tokens in dev mode; a throwaway secret is fine
		// because the dev middleware never verifies them.
		tokenSvc = tokens.NewWithClock(config.AuthConfig{
			Secret:   []byte(getenv("AUTH_TOKEN_SECRET", "dev-secret")),
			TokenTTL: 24 * time.Hour,
		}, clk)
	default:
		authCfg, err := config.LoadAuthConfigFromEnv()
		if err != nil {
			log.Fatalf("invalid auth config: %v", err)
		}
		tokenSvc = tokens.NewWithClock(authCfg, clk)
		authMW = httpapi.NewAuthMiddlewares(tokenSvc)
	}

	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		postRepo postrepoport.Repository
		userRepo userrepoport.Repository
		cleanup  func()
	)

	switch storageBackend {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		pool, err := postgres.NewPool(context.Background(), dsn, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close

		postRepo = pgpostrepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
	case "sqlite":
		db, err := sqlite.Open(getenv("SQLITE_PATH", "movie-blog.db"))
		if err != nil {
			log.Fatalf("invalid sqlite config: %v", err)
		}
		cleanup = func() { _ = db.Close() }

		postRepo = sqlpostrepo.NewRepo(db)
		userRepo = sqluserrepo.NewRepo(db)
	default:
		postRepo = mempostrepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
	}

	if cleanup != nil {
		defer cleanup()
	}

	postSvc := posts.NewService(postRepo, clk)
	userSvc := users.NewService(userRepo, clk, tokenSvc)

	handler := httpapi.NewRouter(
		httpapi.NewServer(postSvc, userSvc),
		httpapi.RouterOptions{Auth: authMW},
	)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
