package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

const orderColumns = `id, child_id, guardian_id, status, scan_token, withdrawal_at, completed_by, created_at, updated_at`

const credentialColumns = `id, order_id, name, cedula, phone, relationship, code_hash, code_cipher, code_expires_at, is_active, created_at`

func (r *withdrawalRepository) Create(ctx context.Context, order *model.WithdrawalOrder, credential *model.PickerCredential) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO withdrawal_orders (id, child_id, guardian_id, status, created_at, updated_at)
                             VALUES ($1, $2, $3, $4, $5, $5)`
		if _, err := tx.Exec(ctx, insertOrder,
			order.ID, order.ChildID, order.GuardianID, model.OrderStatusPending, order.CreatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return fmt.Errorf("insert order: %w", err)
		}

		const insertCredential = `INSERT INTO picker_credentials (` + credentialColumns + `)
                                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		if _, err := tx.Exec(ctx, insertCredential,
			credential.ID, order.ID, credential.Name, credential.Cedula, credential.Phone,
			credential.Relationship, credential.CodeHash, credential.CodeCipher, credential.CodeExpiresAt,
			true, credential.CreatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return fmt.Errorf("insert credential: %w", err)
		}

		const validate = `UPDATE withdrawal_orders SET status=$2, scan_token=$3, updated_at=$4
                          WHERE id=$1 AND status=$5 AND scan_token IS NULL`
		tag, err := tx.Exec(ctx, validate,
			order.ID, model.OrderStatusValidated, order.ScanToken, order.CreatedAt, model.OrderStatusPending,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return fmt.Errorf("validate order: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return domainErrors.ErrInvalidState
		}

		order.Status = model.OrderStatusValidated
		order.UpdatedAt = order.CreatedAt
		credential.OrderID = order.ID
		credential.IsActive = true
		return nil
	})
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id string) (*model.WithdrawalOrder, error) {
	row := r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM withdrawal_orders WHERE id=$1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

func (r *withdrawalRepository) ListByGuardian(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error) {
	rows, err := r.storage.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM withdrawal_orders WHERE guardian_id=$1 ORDER BY created_at DESC`, guardianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.WithdrawalOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *withdrawalRepository) CredentialByOrder(ctx context.Context, orderID string) (*model.PickerCredential, error) {
	row := r.storage.pool.QueryRow(ctx, `SELECT `+credentialColumns+` FROM picker_credentials WHERE order_id=$1`, orderID)
	credential, err := scanCredential(row)
	if err != nil {
		return nil, notFound(err)
	}
	return credential, nil
}

func (r *withdrawalRepository) CredentialByCedula(ctx context.Context, cedula string) (*model.PickerCredential, error) {
	row := r.storage.pool.QueryRow(ctx, `SELECT `+credentialColumns+` FROM picker_credentials
        WHERE cedula=$1 ORDER BY is_active DESC, created_at DESC LIMIT 1`, cedula)
	credential, err := scanCredential(row)
	if err != nil {
		return nil, notFound(err)
	}
	return credential, nil
}

func (r *withdrawalRepository) Transition(ctx context.Context, t model.Transition) (*model.WithdrawalOrder, error) {
	var updated *model.WithdrawalOrder
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM withdrawal_orders WHERE id=$1 FOR UPDATE`, t.OrderID)
		current, err := scanOrder(row)
		if err != nil {
			return notFound(err)
		}
		if !current.Status.CanTransitionTo(t.To) {
			return domainErrors.ErrInvalidState
		}

		current.Status = t.To
		current.UpdatedAt = t.At
		if t.To == model.OrderStatusCompleted {
			at := t.At
			actor := t.ActorID
			current.WithdrawalTimestamp = &at
			current.CompletedBy = &actor
		}

		const update = `UPDATE withdrawal_orders
                        SET status=$2, updated_at=$3, withdrawal_at=$4, completed_by=$5
                        WHERE id=$1`
		if _, err := tx.Exec(ctx, update,
			current.ID, current.Status, current.UpdatedAt, current.WithdrawalTimestamp, current.CompletedBy,
		); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if t.To.Terminal() {
			if _, err := tx.Exec(ctx,
				`UPDATE picker_credentials SET is_active=FALSE WHERE order_id=$1 AND is_active`, current.ID,
			); err != nil {
				return fmt.Errorf("deactivate credential: %w", err)
			}
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func scanOrder(row pgx.Row) (*model.WithdrawalOrder, error) {
	var (
		order     model.WithdrawalOrder
		scanToken *string
	)
	if err := row.Scan(
		&order.ID, &order.ChildID, &order.GuardianID, &order.Status, &scanToken,
		&order.WithdrawalTimestamp, &order.CompletedBy, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if scanToken != nil {
		order.ScanToken = *scanToken
	}
	return &order, nil
}

func scanCredential(row pgx.Row) (*model.PickerCredential, error) {
	var c model.PickerCredential
	if err := row.Scan(
		&c.ID, &c.OrderID, &c.Name, &c.Cedula, &c.Phone, &c.Relationship,
		&c.CodeHash, &c.CodeCipher, &c.CodeExpiresAt, &c.IsActive, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
