package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[string]*model.User
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[string]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	stored := *user
	s.ByEmail[user.Email] = &stored
	s.ByID[user.ID] = &stored
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		u := *user
		return &u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		u := *user
		return &u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ChildRepositoryStub stores children in-memory.
type ChildRepositoryStub struct {
	mu       sync.Mutex
	Children map[string]model.Child
	Err      error
}

// NewChildRepositoryStub constructs an empty stub.
func NewChildRepositoryStub(children ...model.Child) *ChildRepositoryStub {
	s := &ChildRepositoryStub{Children: make(map[string]model.Child)}
	for _, c := range children {
		s.Children[c.ID] = c
	}
	return s
}

// Create stores child.
func (s *ChildRepositoryStub) Create(ctx context.Context, child *model.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Children[child.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Children[child.ID] = *child
	return nil
}

// GetByID returns child or not found.
func (s *ChildRepositoryStub) GetByID(ctx context.Context, id string) (*model.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	child, ok := s.Children[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &child, nil
}

// ListByGuardian returns children of guardianID sorted by name.
func (s *ChildRepositoryStub) ListByGuardian(ctx context.Context, guardianID string) ([]model.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Child
	for _, c := range s.Children {
		if c.GuardianID == guardianID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// WithdrawalRepositoryStub keeps orders and credentials in-memory. Transition is
// serialized by a mutex so it behaves like the locking storage implementation.
type WithdrawalRepositoryStub struct {
	mu          sync.Mutex
	Orders      map[string]model.WithdrawalOrder
	Credentials map[string]model.PickerCredential
	Transitions []model.Transition

	CreateErr     error
	TransitionErr error
}

// NewWithdrawalRepositoryStub constructs an empty stub.
func NewWithdrawalRepositoryStub() *WithdrawalRepositoryStub {
	return &WithdrawalRepositoryStub{
		Orders:      make(map[string]model.WithdrawalOrder),
		Credentials: make(map[string]model.PickerCredential),
	}
}

// Create stores order as VALIDATED with its credential.
func (s *WithdrawalRepositoryStub) Create(ctx context.Context, order *model.WithdrawalOrder, credential *model.PickerCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	for _, c := range s.Credentials {
		if c.IsActive && c.Cedula == credential.Cedula {
			return domainErrors.ErrAlreadyExists
		}
	}
	if order.Status != model.OrderStatusPending || order.ScanToken == "" {
		return domainErrors.ErrInvalidState
	}

	order.Status = model.OrderStatusValidated
	order.UpdatedAt = order.CreatedAt
	credential.OrderID = order.ID
	credential.IsActive = true
	s.Orders[order.ID] = *order
	s.Credentials[order.ID] = *credential
	return nil
}

// GetByID returns a copy of the order.
func (s *WithdrawalRepositoryStub) GetByID(ctx context.Context, id string) (*model.WithdrawalOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

// ListByGuardian returns orders of guardianID, newest first.
func (s *WithdrawalRepositoryStub) ListByGuardian(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.WithdrawalOrder
	for _, o := range s.Orders {
		if o.GuardianID == guardianID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// CredentialByOrder returns the credential of orderID.
func (s *WithdrawalRepositoryStub) CredentialByOrder(ctx context.Context, orderID string) (*model.PickerCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Credentials[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &c, nil
}

// CredentialByCedula prefers the active credential, then the newest one.
func (s *WithdrawalRepositoryStub) CredentialByCedula(ctx context.Context, cedula string) (*model.PickerCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *model.PickerCredential
	for _, c := range s.Credentials {
		if c.Cedula != cedula {
			continue
		}
		c := c
		switch {
		case best == nil:
			best = &c
		case c.IsActive && !best.IsActive:
			best = &c
		case c.IsActive == best.IsActive && c.CreatedAt.After(best.CreatedAt):
			best = &c
		}
	}
	if best == nil {
		return nil, domainErrors.ErrNotFound
	}
	return best, nil
}

// Transition applies t atomically under the stub mutex.
func (s *WithdrawalRepositoryStub) Transition(ctx context.Context, t model.Transition) (*model.WithdrawalOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TransitionErr != nil {
		return nil, s.TransitionErr
	}
	order, ok := s.Orders[t.OrderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if !order.Status.CanTransitionTo(t.To) {
		return nil, domainErrors.ErrInvalidState
	}

	order.Status = t.To
	order.UpdatedAt = t.At
	if t.To == model.OrderStatusCompleted {
		at, actor := t.At, t.ActorID
		order.WithdrawalTimestamp = &at
		order.CompletedBy = &actor
	}
	if t.To.Terminal() {
		if c, ok := s.Credentials[order.ID]; ok {
			c.IsActive = false
			s.Credentials[order.ID] = c
		}
	}
	s.Orders[order.ID] = order
	s.Transitions = append(s.Transitions, t)
	return &order, nil
}
