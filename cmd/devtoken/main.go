package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
	platformclock "github.com/reelboard/movie-blog-api/internal/platform/clock"
	"github.com/reelboard/movie-blog-api/internal/platform/config"
)

// Dev-only token minter.
//
// Mints an access token against the same shared secret the API verifies with,
// so curl sessions against a local server don't need to go through /users/login.
func main() {
	var (
		sub   = flag.String("sub", "dev|local", "subject (user id) to embed")
		email = flag.String("email", "dev@localhost", "email claim")
		admin = flag.Bool("admin", false, "set the isAdmin claim")
		ttl   = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	secret := strings.TrimSpace(os.Getenv("AUTH_TOKEN_SECRET"))
	if secret == "" {
		log.Fatal("AUTH_TOKEN_SECRET must be set")
	}

	svc := tokens.NewWithClock(config.AuthConfig{
		Secret:   []byte(secret),
		TokenTTL: *ttl,
	}, platformclock.NewSystemClock())

	tok, err := svc.Issue(tokens.Claims{
		Subject: domain.SubjectID(*sub),
		Email:   *email,
		IsAdmin: *admin,
	})
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(tok)
}
