package users

import (
	"context"
	"errors"
	"net/mail"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
	clockport "github.com/reelboard/movie-blog-api/internal/ports/out/clock"
	"github.com/reelboard/movie-blog-api/internal/ports/out/userrepo"
)

// TokenIssuer mints an access token for the given identity claims.
type TokenIssuer interface {
	Issue(c tokens.Claims) (string, error)
}

type Service struct {
	repo   userrepo.Repository
	clk    clockport.Clock
	issuer TokenIssuer

	newUserID func() domain.UserID

	// bcryptCost is overridable so tests don't pay the default work factor.
	bcryptCost int
}

func NewService(repo userrepo.Repository, clk clockport.Clock, issuer TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		clk:    clk,
		issuer: issuer,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
		bcryptCost: bcrypt.DefaultCost,
	}
}

// SetIDGeneratorForTest overrides user ID generation for deterministic tests.
func (s *Service) SetIDGeneratorForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

// SetBcryptCostForTest lowers the hashing work factor for fast tests.
func (s *Service) SetBcryptCostForTest(cost int) {
	if cost >= bcrypt.MinCost {
		s.bcryptCost = cost
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

// Register creates a user account. Passwords must be at least 8 characters;
// the stored value is a bcrypt hash, never the password itself.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "Email invalid",
			Details: map[string]any{"email": "must be a valid email address"},
		}
	}
	if len(in.Password) < 8 {
		return domain.User{}, &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "Password must be atleast 8 characters",
			Details: map[string]any{"password": "must be at least 8 characters"},
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clk.Now().UTC()
	u := userrepo.User{
		ID:           s.newUserID(),
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return domain.User{}, &Error{Status: 409, Code: "EMAIL_TAKEN", Message: "Email already registered"}
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// Login checks credentials and returns a signed access token embedding the
// user's identity claims.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "No Email Found"}
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "Email and password do not match"}
	}

	return s.issuer.Issue(tokens.Claims{
		Subject: domain.SubjectID(u.ID),
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	})
}

// Details returns the account behind the authenticated subject.
func (s *Service) Details(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, domain.UserID(subject))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "User not found"}
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

func toDomain(u userrepo.User) domain.User {
	return domain.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
