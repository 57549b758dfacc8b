package repository

import (
	"context"

	"github.com/polkiloo/safepick/internal/domain/model"
)

// ChildRepository resolves children and their guardian-of-record.
type ChildRepository interface {
	Create(ctx context.Context, child *model.Child) error
	GetByID(ctx context.Context, id string) (*model.Child, error)
	ListByGuardian(ctx context.Context, guardianID string) ([]model.Child, error)
}
