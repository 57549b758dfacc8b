package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/domain/repository"
)

// ChildUseCase manages children of a guardian.
type ChildUseCase struct {
	children repository.ChildRepository
}

// NewChildUseCase constructs ChildUseCase.
func NewChildUseCase(children repository.ChildRepository) *ChildUseCase {
	return &ChildUseCase{children: children}
}

// Register stores a child under guardianID.
func (u *ChildUseCase) Register(ctx context.Context, guardianID string, in ChildInput) (*model.Child, error) {
	in, err := ValidateChild(in)
	if err != nil {
		return nil, err
	}

	child := &model.Child{
		ID:         uuid.NewString(),
		GuardianID: guardianID,
		Name:       in.Name,
		Grade:      in.Grade,
		School:     in.School,
	}
	if err := u.children.Create(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

// List returns children of guardianID.
func (u *ChildUseCase) List(ctx context.Context, guardianID string) ([]model.Child, error) {
	return u.children.ListByGuardian(ctx, guardianID)
}

// Get returns a child of guardianID. Children of other guardians fail with ErrUnauthorized.
func (u *ChildUseCase) Get(ctx context.Context, childID, guardianID string) (*model.Child, error) {
	return ownedChild(ctx, u.children, childID, guardianID)
}

func ownedChild(ctx context.Context, children repository.ChildRepository, childID, guardianID string) (*model.Child, error) {
	child, err := children.GetByID(ctx, childID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if child.GuardianID != guardianID {
		return nil, domainErrors.ErrUnauthorized
	}
	return child, nil
}
