package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

const userColumns = `id, email, password_hash, name, role, cedula, phone, telegram_chat_id, created_at`

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	const query = `INSERT INTO users (id, email, password_hash, name, role, cedula, phone, telegram_chat_id)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Cedula, u.Phone, u.TelegramChatID,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) get(ctx context.Context, query string, arg string) (*model.User, error) {
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Cedula, &u.Phone, &u.TelegramChatID, &u.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
