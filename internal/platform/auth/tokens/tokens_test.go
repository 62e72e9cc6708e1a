package tokens

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reelboard/movie-blog-api/internal/platform/config"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(now time.Time) *Service {
	cfg := config.AuthConfig{
		Secret:    []byte("test-secret"),
		TokenTTL:  24 * time.Hour,
		ClockSkew: 0,
	}
	return NewWithClock(cfg, fixedClock{t: now})
}

func TestService_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	svc := newTestService(now)

	tok, err := svc.Issue(Claims{Subject: "u1", Email: "u1@example.com", IsAdmin: true})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Subject != "u1" || got.Email != "u1@example.com" || !got.IsAdmin {
		t.Fatalf("claims=%+v", got)
	}
}

func TestService_Verify_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Unix(1700000000, 0)
	svc := newTestService(issued)
	tok, err := svc.Issue(Claims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// One second past the one-day expiry.
	late := NewWithClock(config.AuthConfig{Secret: []byte("test-secret"), TokenTTL: 24 * time.Hour},
		fixedClock{t: issued.Add(24*time.Hour + time.Second)})
	_, err = late.Verify(tok)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("err=%v, want expiry reason", err)
	}
}

func TestService_Verify_ClockSkewTolerated(t *testing.T) {
	t.Parallel()

	issued := time.Unix(1700000000, 0)
	svc := newTestService(issued)
	tok, err := svc.Issue(Claims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cfg := config.AuthConfig{Secret: []byte("test-secret"), TokenTTL: 24 * time.Hour, ClockSkew: 30 * time.Second}
	within := NewWithClock(cfg, fixedClock{t: issued.Add(24*time.Hour + 10*time.Second)})
	if _, err := within.Verify(tok); err != nil {
		t.Fatalf("Verify within skew: %v", err)
	}
}

func TestService_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	svc := newTestService(now)
	tok, err := svc.Issue(Claims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewWithClock(config.AuthConfig{Secret: []byte("other-secret"), TokenTTL: 24 * time.Hour},
		fixedClock{t: now})
	if _, err := other.Verify(tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
}

func TestService_Verify_TamperedClaims(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	svc := newTestService(now)
	tok, err := svc.Issue(Claims{Subject: "u1", IsAdmin: false})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	claimsB, _ := base64.RawURLEncoding.DecodeString(parts[1])
	tampered := strings.Replace(string(claimsB), `"isAdmin":false`, `"isAdmin":true`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	if _, err := svc.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
}

func TestService_Verify_Malformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(time.Unix(1700000000, 0))
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!.!!.!!"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("token %q: err=%v, want ErrUnauthorized", tok, err)
		}
	}
}

func TestService_Verify_StringAdminFlag(t *testing.T) {
	t.Parallel()

	// Mint a token whose isAdmin claim is the string "true" (legacy encoding).
	now := time.Unix(1700000000, 0)
	svc := newTestService(now)

	exp := now.Add(time.Hour).Unix()
	claims := map[string]any{"sub": "u1", "email": "u1@example.com", "isAdmin": "true", "exp": exp}
	hb, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	cb, _ := json.Marshal(claims)
	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(hb) + "." + enc.EncodeToString(cb)
	tok := signingInput + "." + enc.EncodeToString(svc.sign(signingInput))

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !got.IsAdmin {
		t.Fatalf("expected string \"true\" to grant admin")
	}
}
