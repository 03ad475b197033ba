package repository

import (
	"context"
	"database/sql"
	"errors"

	"reclamation-portal/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type ReclamationRepository interface {
	Create(ctx context.Context, rec *models.Reclamation) error
	ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error)
	ListAllWithUsers(ctx context.Context) ([]models.ReclamationWithUser, error)
	ListSummariesByUser(ctx context.Context, userID string) ([]models.ReclamationSummary, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Reclamation, error)
	CountByStatus(ctx context.Context, status models.Status) (int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type reclamationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReclamationRepository(db *sqlx.DB, logger *zap.Logger) ReclamationRepository {
	return &reclamationRepository{db: db, logger: logger}
}

func (r *reclamationRepository) Create(ctx context.Context, rec *models.Reclamation) error {
	query := `INSERT INTO reclamations (id, title, description, file_url, status, user_id)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, query, rec.ID, rec.Title, rec.Description, rec.FileURL, rec.Status, rec.UserID).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *reclamationRepository) ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error) {
	recs := []models.Reclamation{}
	query := `SELECT id, title, description, file_url, status, created_at, updated_at, user_id
	          FROM reclamations WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, err
	}
	return recs, nil
}

// reclamationUserRow flattens the join used by ListAllWithUsers.
type reclamationUserRow struct {
	models.Reclamation
	OwnerID    string `db:"owner_id"`
	OwnerName  string `db:"owner_name"`
	OwnerEmail string `db:"owner_email"`
}

func (r *reclamationRepository) ListAllWithUsers(ctx context.Context) ([]models.ReclamationWithUser, error) {
	rows := []reclamationUserRow{}
	query := `SELECT r.id, r.title, r.description, r.file_url, r.status, r.created_at, r.updated_at, r.user_id,
	                 u.id AS owner_id, u.name AS owner_name, u.email AS owner_email
	          FROM reclamations r
	          JOIN users u ON u.id = r.user_id
	          ORDER BY r.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	recs := make([]models.ReclamationWithUser, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, models.ReclamationWithUser{
			Reclamation: row.Reclamation,
			User: models.UserSummary{
				ID:    row.OwnerID,
				Name:  row.OwnerName,
				Email: row.OwnerEmail,
			},
		})
	}
	return recs, nil
}

func (r *reclamationRepository) ListSummariesByUser(ctx context.Context, userID string) ([]models.ReclamationSummary, error) {
	recs := []models.ReclamationSummary{}
	query := `SELECT id, title, status, created_at
	          FROM reclamations WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *reclamationRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Reclamation, error) {
	var rec models.Reclamation
	query := `UPDATE reclamations SET status = $2, updated_at = NOW()
	          WHERE id = $1
	          RETURNING id, title, description, file_url, status, created_at, updated_at, user_id`
	err := r.db.QueryRowxContext(ctx, query, id, status).StructScan(&rec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *reclamationRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reclamations WHERE status = $1`, status)
	return count, err
}

func (r *reclamationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reclamations WHERE user_id = $1`, userID)
	return count, err
}
