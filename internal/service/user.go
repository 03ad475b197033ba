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

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserHasReclamations = errors.New("cannot delete a user who owns reclamations")
)

// UserDetails is the admin view of a single user, reclamations
// included.
type UserDetails struct {
	models.User
	Reclamations []models.ReclamationSummary `json:"reclamations"`
}

// UserUpdate carries the optional fields of an administrative user
// update. Nil means "leave unchanged".
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
	Role     *models.Role
}

type UserService interface {
	List(ctx context.Context) ([]models.UserWithCount, error)
	Get(ctx context.Context, id string) (*UserDetails, error)
	Create(ctx context.Context, email, name, password string, role models.Role) (*models.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Overview(ctx context.Context) (*models.UserStats, error)
}

type userService struct {
	users  repository.UserRepository
	recs   repository.ReclamationRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, recs repository.ReclamationRepository, logger *zap.Logger) UserService {
	return &userService{users: users, recs: recs, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]models.UserWithCount, error) {
	users, err := s.users.ListWithCounts(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*UserDetails, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	recs, err := s.recs.ListSummariesByUser(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list user reclamations", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve reclamations: %w", err)
	}

	return &UserDetails{User: *user, Reclamations: recs}, nil
}

func (s *userService) Create(ctx context.Context, email, name, password string, role models.Role) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to look up email", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
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
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created by admin", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if update.Email != nil && *update.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *update.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to look up email", zap.Error(err))
			return nil, fmt.Errorf("failed to check existing users: %w", err)
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	// An empty or omitted password keeps the existing hash.
	if update.Password != nil && *update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash := string(hash)
		user.PasswordHash = &passwordHash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to update user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", zap.String("id", id))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	count, err := s.recs.CountByUser(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count user reclamations", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to count reclamations: %w", err)
	}
	if count > 0 {
		return ErrUserHasReclamations
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to delete user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", zap.String("id", id))
	return nil
}

func (s *userService) Overview(ctx context.Context) (*models.UserStats, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error("Failed to count admins", zap.Error(err))
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	workers, err := s.users.CountByRole(ctx, models.RoleWorker)
	if err != nil {
		s.logger.Error("Failed to count workers", zap.Error(err))
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	recent, err := s.users.ListRecent(ctx, 5)
	if err != nil {
		s.logger.Error("Failed to list recent users", zap.Error(err))
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}

	return &models.UserStats{
		TotalUsers:  total,
		AdminUsers:  admins,
		WorkerUsers: workers,
		RecentUsers: recent,
	}, nil
}
