package service

import (
	"context"
	"errors"
	"fmt"

	"reclamation-portal/internal/models"
	"reclamation-portal/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ( // Define custom errors
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IdentityProvider exchanges an authorization code against an
// external identity. The real exchange is out of scope; callers may
// plug in any implementation without touching the auth flow.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (*ExternalIdentity, error)
}

// ExternalIdentity is the identity resolved by an IdentityProvider.
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
}

// StaticIdentityProvider resolves every code to the same fixed
// identity. It stands in for a real provider during development.
type StaticIdentityProvider struct {
	Identity ExternalIdentity
}

func (p *StaticIdentityProvider) Exchange(ctx context.Context, code string) (*ExternalIdentity, error) {
	identity := p.Identity
	return &identity, nil
}

// NewDevIdentityProvider returns the stub provider with the fixed
// development identity.
func NewDevIdentityProvider() IdentityProvider {
	return &StaticIdentityProvider{Identity: ExternalIdentity{
		Subject: "123456",
		Email:   "utilisateur@example.com",
		Name:    "Utilisateur Test",
	}}
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Callback(ctx context.Context, code string) (string, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   TokenService
	provider IdentityProvider
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens TokenService, provider IdentityProvider, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		provider: provider,
		logger:   logger,
	}
}

// firstUserRole assigns ADMIN to the very first account ever created
// and WORKER to everyone after. The count-then-create sequence is not
// atomic; concurrent first registrations may race. Accepted
// limitation, the admin account is expected to be created before the
// portal is opened to workers.
func (s *authService) firstUserRole(ctx context.Context) (models.Role, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		return models.RoleAdmin, nil
	}
	return models.RoleWorker, nil
}

func (s *authService) Register(ctx context.Context, email, password, name string) (string, error) {
	// Fast-path duplicate check; the DB unique constraint is the
	// actual enforcement.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to look up email", zap.Error(err))
		return "", fmt.Errorf("failed to check existing users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := s.firstUserRole(ctx)
	if err != nil {
		return "", err
	}

	passwordHash := string(hash)
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: &passwordHash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", err
	}

	s.logger.Info("User registered", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	// Users provisioned through the callback flow carry no password
	// hash and cannot log in with credentials.
	if user.PasswordHash == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", err
	}

	s.logger.Info("User logged in", zap.String("email", user.Email))
	return token, nil
}

func (s *authService) Callback(ctx context.Context, code string) (string, error) {
	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Identity exchange failed", zap.Error(err))
		return "", fmt.Errorf("identity exchange failed: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if errors.Is(err, repository.ErrNotFound) {
		role, roleErr := s.firstUserRole(ctx)
		if roleErr != nil {
			return "", roleErr
		}

		user = &models.User{
			ID:    uuid.NewString(),
			Email: identity.Email,
			Name:  identity.Name,
			Role:  role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			s.logger.Error("Failed to provision callback user", zap.Error(err))
			return "", fmt.Errorf("failed to provision user: %w", err)
		}
		s.logger.Info("Provisioned callback user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	} else if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", err
	}

	return token, nil
}
