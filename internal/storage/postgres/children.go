package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

func (r *childRepository) Create(ctx context.Context, c *model.Child) error {
	const query = `INSERT INTO children (id, guardian_id, name, grade, school)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, c.ID, c.GuardianID, c.Name, c.Grade, c.School).Scan(&c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *childRepository) GetByID(ctx context.Context, id string) (*model.Child, error) {
	const query = `SELECT id, guardian_id, name, grade, school, created_at FROM children WHERE id=$1`
	var c model.Child
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.GuardianID, &c.Name, &c.Grade, &c.School, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *childRepository) ListByGuardian(ctx context.Context, guardianID string) ([]model.Child, error) {
	const query = `SELECT id, guardian_id, name, grade, school, created_at
                   FROM children WHERE guardian_id=$1 ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query, guardianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Child
	for rows.Next() {
		var c model.Child
		if err := rows.Scan(&c.ID, &c.GuardianID, &c.Name, &c.Grade, &c.School, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
