package tokens

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/config"
)

var (
	// ErrUnauthorized wraps every verification failure; the specific reason is
	// carried in the wrapping error's message.
	ErrUnauthorized = errors.New("unauthorized")
)

// Claims are the identity attributes embedded in an access token.
type Claims struct {
	Subject domain.SubjectID
	Email   string
	IsAdmin bool
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service issues and verifies HS256 access tokens.
//
// Tokens embed {sub, email, isAdmin} plus iat/exp; the expiry defaults to one
// day via config. Issuance and verification share a single injected secret.
type Service struct {
	cfg   config.AuthConfig
	clock Clock
}

func New(cfg config.AuthConfig) *Service {
	return NewWithClock(cfg, nil)
}

func NewWithClock(cfg config.AuthConfig, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{cfg: cfg, clock: clock}
}

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type wireClaims struct {
	Sub   string          `json:"sub"`
	Email string          `json:"email"`
	// IsAdmin is tolerated as boolean true or string "true"; legacy tokens
	// carried both encodings.
	IsAdmin json.RawMessage `json:"isAdmin,omitempty"`
	Iat     *int64          `json:"iat,omitempty"`
	Exp     *int64          `json:"exp,omitempty"`
}

// Issue mints a signed token embedding c, valid for the configured TTL.
func (s *Service) Issue(c Claims) (string, error) {
	if c.Subject == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}
	now := s.clock.Now().UTC()
	iat := now.Unix()
	exp := now.Add(s.cfg.TokenTTL).Unix()

	h := header{Alg: "HS256", Typ: "JWT"}
	wc := wireClaims{
		Sub:   string(c.Subject),
		Email: c.Email,
		Iat:   &iat,
		Exp:   &exp,
	}
	if c.IsAdmin {
		wc.IsAdmin = json.RawMessage("true")
	} else {
		wc.IsAdmin = json.RawMessage("false")
	}

	hb, err := json.Marshal(h)
	if err != nil {
		return "", err
	}
	cb, err := json.Marshal(wc)
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(hb) + "." + enc.EncodeToString(cb)
	return signingInput + "." + enc.EncodeToString(s.sign(signingInput)), nil
}

// Verify checks a token's signature and expiry and returns the embedded claims.
//
// All failures wrap ErrUnauthorized; the error message names the reason and is
// safe to surface to the caller (the product contract returns it in the 401 body).
func (s *Service) Verify(token string) (Claims, error) {
	h, wc, signingInput, sig, err := parseToken(token)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: malformed token", ErrUnauthorized)
	}
	if h.Alg != "HS256" {
		return Claims{}, fmt.Errorf("%w: unexpected signing algorithm", ErrUnauthorized)
	}
	if !hmac.Equal(sig, s.sign(signingInput)) {
		return Claims{}, fmt.Errorf("%w: invalid signature", ErrUnauthorized)
	}
	if wc.Exp == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrUnauthorized)
	}
	if s.clock.Now().After(time.Unix(*wc.Exp, 0).Add(s.cfg.ClockSkew)) {
		return Claims{}, fmt.Errorf("%w: jwt expired", ErrUnauthorized)
	}
	if wc.Sub == "" {
		return Claims{}, fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}

	return Claims{
		Subject: domain.SubjectID(wc.Sub),
		Email:   wc.Email,
		IsAdmin: adminFlag(wc.IsAdmin),
	}, nil
}

func (s *Service) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, s.cfg.Secret)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}

func parseToken(token string) (header, wireClaims, string, []byte, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return header{}, wireClaims{}, "", nil, fmt.Errorf("bad jwt parts")
	}
	headerB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return header{}, wireClaims{}, "", nil, err
	}
	claimsB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return header{}, wireClaims{}, "", nil, err
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return header{}, wireClaims{}, "", nil, err
	}
	var h header
	if err := json.Unmarshal(headerB, &h); err != nil {
		return header{}, wireClaims{}, "", nil, err
	}
	var wc wireClaims
	if err := json.Unmarshal(claimsB, &wc); err != nil {
		return header{}, wireClaims{}, "", nil, err
	}
	return h, wc, parts[0] + "." + parts[1], sig, nil
}

// adminFlag accepts boolean true or the string "true"; anything else is false.
func adminFlag(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s == "true"
	}
	return false
}
