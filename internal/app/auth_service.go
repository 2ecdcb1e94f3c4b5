package app

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gotodo/internal/model"
	"gotodo/internal/pkg/jwtutil"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("could not validate credentials")
)

type AuthService struct {
	users         UserStore
	jwtSecret     string
	jwtExpiration time.Duration
}

type LoginInput struct {
	// Subject is a username or an email; login accepts either.
	Subject  string
	Password string
}

type TokenResult struct {
	AccessToken string
	TokenType   string
}

func NewAuthService(users UserStore, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Login exchanges credentials for a bearer token. Unknown subject and wrong
// password both come back as ErrInvalidCredentials so callers cannot probe
// which accounts exist.
func (s *AuthService) Login(input LoginInput) (*TokenResult, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetBySubject(subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.IssueToken(user)
}

// IssueToken mints a fresh token for an already-authenticated user. The
// refresh endpoint uses it directly.
func (s *AuthService) IssueToken(user *model.User) (*TokenResult, error) {
	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token, TokenType: "Bearer"}, nil
}

// Authenticate resolves a bearer token to a user record. Expiry surfaces as
// ErrTokenExpired; any other defect, including a subject that matches no
// user, surfaces as ErrTokenInvalid.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := jwtutil.ParseToken(s.jwtSecret, tokenString)
	if err != nil {
		if errors.Is(err, jwtutil.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	user, err := s.users.GetBySubject(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	return user, nil
}
