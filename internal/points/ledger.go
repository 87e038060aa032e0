// Package points maintains the append-only points ledger and derives
// user balances from it.
package points

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

// Ledger validates and appends point-earning and point-spending events.
// There is no update or delete: the ledger is the source of truth and a
// balance is always derived from it, never stored alongside it.
type Ledger struct {
	repo  domain.LedgerRepository
	clock clockwork.Clock
}

// NewLedger creates a ledger over the given repository.
func NewLedger(repo domain.LedgerRepository, clock clockwork.Clock) *Ledger {
	return &Ledger{repo: repo, clock: clock}
}

// Append records one ledger event. The amount must be a strictly positive
// integer; zero and negative amounts fail with domain.ErrInvalidAmount
// before anything is written. Concurrent appends need no coordination:
// each append is an independent insert and never reads a running total.
func (l *Ledger) Append(ctx context.Context, userID uuid.UUID, entryType domain.EntryType, amount int, description string) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidAmount, amount)
	}
	if !entryType.Valid() {
		return nil, fmt.Errorf("unknown ledger entry type %q", entryType)
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        entryType,
		Amount:      amount,
		Description: description,
		CreatedAt:   l.clock.Now(),
	}

	if err := l.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return entry, nil
}

// Balance returns sum(earned) - sum(spent) over the user's entries at
// read time. A user without entries has balance 0.
func (l *Ledger) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	balance, err := l.repo.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

// History lists the user's ledger entries.
func (l *Ledger) History(ctx context.Context, userID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := l.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}
