// Package ledger is the wallet subsystem: balance mutations paired with an
// append-only transaction log. Every read-modify-write unit is serialized
// behind one mutex so no caller can observe an updated balance without its
// companion log row.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"arcadepal/internal/database"
)

// ErrInsufficientFunds is returned by Debit when the wager exceeds the
// current balance. It is user-facing and non-retryable.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Currency names used in transaction rows.
const (
	CurrencyCoins = "coins"
	CurrencyGems  = "gems"
)

// MaxHistory is the hard cap on history reads regardless of the requested
// limit.
const MaxHistory = 200

// Ledger serializes wallet access across sessions and commands.
type Ledger struct {
	mu sync.Mutex
	db *database.DB
}

// Entry is the receipt for a single ledger mutation. A debit entry can be
// handed back to Compensate exactly once to undo an unsettled wager.
type Entry struct {
	TransactionID int64
	UserID        int64
	Amount        int64
	Balance       int64

	consumed bool
}

func New(db *database.DB) *Ledger {
	return &Ledger{db: db}
}

// Balance returns the wallet for a Discord account, creating it on first
// contact.
func (l *Ledger) Balance(discordID string) (*database.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.GetOrCreateUser(discordID)
}

// Debit removes coins from the wallet and appends a log row with the
// negative delta. Fails with ErrInsufficientFunds when the amount exceeds
// the balance; nothing is written in that case.
func (l *Ledger) Debit(discordID string, amount int64, kind, context string) (*Entry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.db.GetOrCreateUser(discordID)
	if err != nil {
		return nil, err
	}
	if user.Coins < amount {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, user.Coins)
	}

	user, err = l.db.UpdateBalance(user.ID, user.Coins-amount, user.Gems)
	if err != nil {
		return nil, err
	}

	tx, err := l.db.InsertTransaction(user.ID, -amount, user.Coins, CurrencyCoins, kind, context)
	if err != nil {
		return nil, fmt.Errorf("balance updated but log append failed: %w", err)
	}

	return &Entry{
		TransactionID: tx.ID,
		UserID:        user.ID,
		Amount:        -amount,
		Balance:       user.Coins,
	}, nil
}

// Credit adds coins to the wallet and appends a log row. A zero amount is a
// no-op without a log row, so null payouts don't pollute the history.
func (l *Ledger) Credit(discordID string, amount int64, kind, context string) (*Entry, error) {
	if amount < 0 {
		return nil, fmt.Errorf("credit amount must not be negative, got %d", amount)
	}
	if amount == 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.db.GetOrCreateUser(discordID)
	if err != nil {
		return nil, err
	}

	user, err = l.db.UpdateBalance(user.ID, user.Coins+amount, user.Gems)
	if err != nil {
		return nil, err
	}

	tx, err := l.db.InsertTransaction(user.ID, amount, user.Coins, CurrencyCoins, kind, context)
	if err != nil {
		return nil, fmt.Errorf("balance updated but log append failed: %w", err)
	}

	return &Entry{
		TransactionID: tx.ID,
		UserID:        user.ID,
		Amount:        amount,
		Balance:       user.Coins,
	}, nil
}

// CreditGems adds gems to the wallet, logging against the gems currency.
// Zero amounts are skipped like Credit.
func (l *Ledger) CreditGems(discordID string, amount int64, kind, context string) error {
	if amount < 0 {
		return fmt.Errorf("gem credit amount must not be negative, got %d", amount)
	}
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.db.GetOrCreateUser(discordID)
	if err != nil {
		return err
	}

	user, err = l.db.UpdateBalance(user.ID, user.Coins, user.Gems+amount)
	if err != nil {
		return err
	}

	_, err = l.db.InsertTransaction(user.ID, amount, user.Gems, CurrencyGems, kind, context)
	if err != nil {
		return fmt.Errorf("balance updated but log append failed: %w", err)
	}
	return nil
}

// Compensate undoes a wager debit: the transaction row is deleted and the
// inverse delta restored. This is the single documented exception to the
// append-only log, legal only while no payout has interleaved with the
// wager. Calling it twice on the same entry is a programming error, not a
// runtime condition.
func (l *Ledger) Compensate(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("nil ledger entry")
	}
	if entry.consumed {
		return fmt.Errorf("ledger entry %d already compensated", entry.TransactionID)
	}
	if entry.Amount >= 0 {
		return fmt.Errorf("only wager debits can be compensated, entry %d has delta %d", entry.TransactionID, entry.Amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Mark before touching storage so a partial failure can't be retried
	// into a double refund.
	entry.consumed = true

	user, err := l.db.UserByID(entry.UserID)
	if err != nil {
		return err
	}

	if _, err := l.db.UpdateBalance(user.ID, user.Coins-entry.Amount, user.Gems); err != nil {
		return err
	}
	if err := l.db.DeleteTransaction(entry.TransactionID); err != nil {
		return fmt.Errorf("balance restored but log row not removed: %w", err)
	}
	return nil
}

// History returns the most recent transactions for a wallet, newest first,
// capped at MaxHistory.
func (l *Ledger) History(discordID string, limit int) ([]database.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.db.GetOrCreateUser(discordID)
	if err != nil {
		return nil, err
	}
	if limit > MaxHistory {
		limit = MaxHistory
	}
	return l.db.RecentTransactions(user.ID, limit)
}
