// Package accountservice manages business logic layer of accounts.
//
// Service is the account registry: it owns every account in memory, hands out
// new account numbers and passcodes, and writes the whole collection back to
// its Repo after each change.
package accountservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-petr/flatbank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxIDAttempts = 100

// ErrIDSpaceExhausted indicates that no unused account number could be drawn.
var ErrIDSpaceExhausted = errors.New("cannot allocate unused account number")

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Load(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, accounts []domain.Account) error
}

// Generator draws account numbers and passcodes for new accounts.
type Generator interface {
	AccountID() string
	Passcode() string
}

// Service facilitates account service layer logic.
type Service struct {
	mu       sync.Mutex
	repo     Repo
	gen      Generator
	accounts map[string]*domain.Account
}

// New returns account service populated from the repo.
func New(ctx context.Context, repo Repo, gen Generator) (*Service, error) {
	s := &Service{
		repo:     repo,
		gen:      gen,
		accounts: make(map[string]*domain.Account),
	}

	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Load replaces the in-memory accounts with the repo content.
func (s *Service) Load(ctx context.Context) error {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	accounts := make(map[string]*domain.Account, len(loaded))
	for i := range loaded {
		a := loaded[i]
		accounts[a.ID] = &a
	}

	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Int("accounts", len(accounts)).Msg("accounts loaded")

	return nil
}

// Save writes every account to the repo.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx)
}

func (s *Service) save(ctx context.Context) error {
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, *a)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	if err := s.repo.Save(ctx, accounts); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("cannot save accounts")
		return fmt.Errorf("save accounts: %w", err)
	}

	return nil
}

// Create opens a zero balance account of the given kind and persists it.
func (s *Service) Create(ctx context.Context, kind domain.Kind) (domain.Account, error) {
	if kind != domain.Personal && kind != domain.Business {
		return domain.Account{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.unusedID()
	if err != nil {
		return domain.Account{}, err
	}

	a := &domain.Account{
		ID:       id,
		Passcode: s.gen.Passcode(),
		Kind:     kind,
	}
	s.accounts[id] = a

	if err := s.save(ctx); err != nil {
		return *a, err
	}

	zerolog.Ctx(ctx).Info().Str("account_id", id).Str("kind", string(kind)).Msg("account created")

	return *a, nil
}

func (s *Service) unusedID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.gen.AccountID()
		if _, taken := s.accounts[id]; !taken {
			return id, nil
		}
	}

	return "", ErrIDSpaceExhausted
}

// Authenticate returns the account if the passcode matches.
//
// An unknown account number and a wrong passcode fail the same way.
func (s *Service) Authenticate(ctx context.Context, id, passcode string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok || a.Passcode != passcode {
		zerolog.Ctx(ctx).Info().Str("account_id", id).Msg("authentication failed")
		return domain.Account{}, domain.ErrAuthenticationFailed
	}

	return *a, nil
}

// Delete removes the account and persists the change.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}

	delete(s.accounts, id)

	if err := s.save(ctx); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("account_id", id).Msg("account deleted")

	return nil
}

// Exists reports whether an account with the id is registered.
func (s *Service) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accounts[id]

	return ok
}

// Get returns a copy of the account with the given id.
func (s *Service) Get(ctx context.Context, id string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return *a, nil
}

// Deposit adds the amount to the account and persists the change.
func (s *Service) Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error) {
	return s.apply(ctx, id, func(a *domain.Account) (domain.Receipt, error) {
		return a.Deposit(amount)
	})
}

// Withdraw takes the amount from the account and persists the change.
func (s *Service) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error) {
	return s.apply(ctx, id, func(a *domain.Account) (domain.Receipt, error) {
		return a.Withdraw(amount)
	})
}

// TopUpMobile moves the amount to the mobile balance and persists the change.
func (s *Service) TopUpMobile(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error) {
	return s.apply(ctx, id, func(a *domain.Account) (domain.Receipt, error) {
		return a.TopUpMobile(amount)
	})
}

// Transfer moves the amount between two accounts and persists the change.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (domain.Receipt, error) {
	return s.apply(ctx, fromID, func(a *domain.Account) (domain.Receipt, error) {
		return a.Transfer(amount, s.accounts[toID])
	})
}

func (s *Service) apply(ctx context.Context, id string, op func(a *domain.Account) (domain.Receipt, error)) (domain.Receipt, error) {
	l := zerolog.Ctx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Receipt{}, domain.ErrAccountNotFound
	}

	receipt, err := op(a)
	if err != nil {
		l.Info().Err(err).Str("account_id", id).Send()
		return domain.Receipt{}, err
	}

	if err := s.save(ctx); err != nil {
		return receipt, err
	}

	l.Info().
		Str("account_id", id).
		Str("operation", string(receipt.Operation)).
		Str("amount", receipt.Amount.String()).
		Msg("account updated")

	return receipt, nil
}
