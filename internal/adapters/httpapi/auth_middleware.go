package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
)

var errMalformedHeader = fmt.Errorf("%w: malformed Authorization header", tokens.ErrUnauthorized)

// TokenVerifier verifies a bearer token and yields the embedded identity claims.
type TokenVerifier interface {
	Verify(token string) (tokens.Claims, error)
}

// AuthMiddlewares bundles the per-route guards the router wires up.
type AuthMiddlewares struct {
	// Require enforces Authorization: Bearer <token> and attaches claims.
	Require func(http.Handler) http.Handler
	// Optional attaches claims when a bearer token is presented; absent
	// headers pass through anonymous. A presented-but-invalid token is
	// still rejected.
	Optional func(http.Handler) http.Handler
	// Admin requires claims already attached by Require with the admin flag set.
	Admin func(http.Handler) http.Handler
}

// NewAuthMiddlewares builds the three bearer-token guards.
//
// The failure bodies ({auth: ...}) are a fixed product contract consumed by
// the SPA and must not change shape.
func NewAuthMiddlewares(v TokenVerifier) AuthMiddlewares {
	return AuthMiddlewares{
		Require:  requireAuth(v),
		Optional: optionalAuth(v),
		Admin:    requireAdmin,
	}
}

const bearerPrefix = "Bearer "

func requireAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed. No Token"})
				return
			}
			claims, err := verifyBearer(v, authz)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed", Message: reasonOf(err)})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func optionalAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := verifyBearer(v, authz)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed", Message: reasonOf(err)})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin {
			writeJSON(w, http.StatusForbidden, AuthFailureBody{Auth: "Failed", Message: "Action Forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func verifyBearer(v TokenVerifier, authz string) (tokens.Claims, error) {
	if !strings.HasPrefix(authz, bearerPrefix) {
		return tokens.Claims{}, errMalformedHeader
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, bearerPrefix))
	if raw == "" {
		return tokens.Claims{}, errMalformedHeader
	}
	return v.Verify(raw)
}

// reasonOf surfaces the verification reason without the sentinel prefix;
// %w-wrapped token errors read "unauthorized: jwt expired".
func reasonOf(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "unauthorized: "); ok {
		return rest
	}
	return msg
}

// NewDevAuthMiddlewares is a local/dev-only auth shim.
//
// Claims come from X-Debug-Subject / X-Debug-Email / X-Debug-Admin headers so
// local Docker workflows don't need a shared signing secret. Do NOT use this in
// production deployments.
func NewDevAuthMiddlewares(defaultSubject string) AuthMiddlewares {
	attach := func(next http.Handler, required bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				if required {
					writeJSON(w, http.StatusUnauthorized, AuthFailureBody{Auth: "Failed. No Token"})
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			claims := tokens.Claims{
				Subject: domain.SubjectID(sub),
				Email:   strings.TrimSpace(r.Header.Get("X-Debug-Email")),
				IsAdmin: r.Header.Get("X-Debug-Admin") == "true",
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
	return AuthMiddlewares{
		Require: func(next http.Handler) http.Handler {
			return attach(next, true)
		},
		Optional: func(next http.Handler) http.Handler {
			return attach(next, false)
		},
		Admin: requireAdmin,
	}
}
