package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	EntryEarned EntryType = "earned"
	EntrySpent  EntryType = "spent"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == EntryEarned || t == EntrySpent
}

// LedgerEntry is one row of the append-only points ledger. Entries are
// never updated or deleted; a user's balance is always the fold
// sum(earned) - sum(spent) over their entries.
type LedgerEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        EntryType
	Amount      int // strictly positive
	Description string
	CreatedAt   time.Time
}
