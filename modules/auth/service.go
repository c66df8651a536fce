package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/wellspace/pkg/jwt"
	"github.com/dmitrymomot/wellspace/pkg/logger"
	"github.com/dmitrymomot/wellspace/pkg/validator"
)

// Config holds the auth module configuration.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`         // SigningKey signs issued tokens.
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"168h"`  // TokenTTL is the issued token lifetime.
	BcryptCost int           `env:"AUTH_BCRYPT_COST" envDefault:"10"` // BcryptCost tunes password hashing.
}

// Service implements registration, login, and profile lookup.
type Service struct {
	store UserStore
	jwt   *jwt.Service
	cfg   Config
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an auth service.
func NewService(store UserStore, cfg Config, opts ...ServiceOption) (*Service, error) {
	tokenSvc, err := jwt.NewFromString(cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 168 * time.Hour
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	s := &Service{
		store: store,
		jwt:   tokenSvc,
		cfg:   cfg,
		log:   slog.Default(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the registration fields, returning every violation.
func (in RegisterInput) Validate() error {
	return validator.Apply(
		validator.RequiredString("name", in.Name),
		validator.MaxLenString("name", in.Name, 100),
		validator.RequiredString("email", in.Email),
		validator.ValidEmail("email", in.Email),
		validator.RequiredString("password", in.Password),
		validator.MinLenString("password", in.Password, 8),
	)
}

// AuthResult is returned by Register and Login: the issued token plus the
// public profile.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates a new user account and issues a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.store.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: *user}, nil
}

// Me returns the profile behind a user id resolved from a token.
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// VerifyToken parses a bearer token and returns the subject user id.
func (s *Service) VerifyToken(token string) (string, error) {
	var claims jwt.StandardClaims
	if err := s.jwt.Parse(token, &claims); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", jwt.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := s.now()
	return s.jwt.Generate(jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.cfg.TokenTTL).Unix(),
	})
}
