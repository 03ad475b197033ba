package service

import (
	"context"
	"errors"

	"reclamation-portal/internal/models"
	"reclamation-portal/internal/repository"
)

// mockUserRepository implements repository.UserRepository with
// overridable behavior per test.
type mockUserRepository struct {
	createFunc         func(ctx context.Context, user *models.User) error
	getByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	getByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	countFunc          func(ctx context.Context) (int, error)
	countByRoleFunc    func(ctx context.Context, role models.Role) (int, error)
	listWithCountsFunc func(ctx context.Context) ([]models.UserWithCount, error)
	listRecentFunc     func(ctx context.Context, limit int) ([]models.RecentUser, error)
	updateFunc         func(ctx context.Context, user *models.User) error
	deleteFunc         func(ctx context.Context, id string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	if m.countByRoleFunc != nil {
		return m.countByRoleFunc(ctx, role)
	}
	return 0, nil
}

func (m *mockUserRepository) ListWithCounts(ctx context.Context) ([]models.UserWithCount, error) {
	if m.listWithCountsFunc != nil {
		return m.listWithCountsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) ListRecent(ctx context.Context, limit int) ([]models.RecentUser, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

// mockReclamationRepository implements
// repository.ReclamationRepository with overridable behavior.
type mockReclamationRepository struct {
	createFunc              func(ctx context.Context, rec *models.Reclamation) error
	listByUserFunc          func(ctx context.Context, userID string) ([]models.Reclamation, error)
	listAllWithUsersFunc    func(ctx context.Context) ([]models.ReclamationWithUser, error)
	listSummariesByUserFunc func(ctx context.Context, userID string) ([]models.ReclamationSummary, error)
	updateStatusFunc        func(ctx context.Context, id string, status models.Status) (*models.Reclamation, error)
	countByStatusFunc       func(ctx context.Context, status models.Status) (int, error)
	countByUserFunc         func(ctx context.Context, userID string) (int, error)
}

func (m *mockReclamationRepository) Create(ctx context.Context, rec *models.Reclamation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rec)
	}
	return errors.New("not implemented")
}

func (m *mockReclamationRepository) ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReclamationRepository) ListAllWithUsers(ctx context.Context) ([]models.ReclamationWithUser, error) {
	if m.listAllWithUsersFunc != nil {
		return m.listAllWithUsersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReclamationRepository) ListSummariesByUser(ctx context.Context, userID string) ([]models.ReclamationSummary, error) {
	if m.listSummariesByUserFunc != nil {
		return m.listSummariesByUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReclamationRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Reclamation, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReclamationRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, status)
	}
	return 0, nil
}

func (m *mockReclamationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	if m.countByUserFunc != nil {
		return m.countByUserFunc(ctx, userID)
	}
	return 0, nil
}
