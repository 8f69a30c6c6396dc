package ledger

import (
	"path/filepath"
	"testing"

	"arcadepal/internal/database"

	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func fund(t *testing.T, l *Ledger, discordID string, amount int64) {
	t.Helper()
	_, err := l.Credit(discordID, amount, "test_seed", "")
	require.NoError(t, err)
}

func TestDebitInsufficientFunds(t *testing.T) {
	l := newTestLedger(t)
	fund(t, l, "1", 50)

	_, err := l.Debit("1", 100, "mines_wager", "")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing was written
	user, err := l.Balance("1")
	require.NoError(t, err)
	require.EqualValues(t, 50, user.Coins)

	history, err := l.History("1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1) // only the seed credit
}

func TestDebitAppendsLogRow(t *testing.T) {
	l := newTestLedger(t)
	fund(t, l, "1", 500)

	entry, err := l.Debit("1", 100, "mines_wager", "Mines entry")
	require.NoError(t, err)
	require.EqualValues(t, -100, entry.Amount)
	require.EqualValues(t, 400, entry.Balance)

	history, err := l.History("1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.EqualValues(t, -100, history[0].Amount)
	require.EqualValues(t, 400, history[0].BalanceAfter)
	require.Equal(t, "mines_wager", history[0].Kind)
}

func TestZeroCreditIsSilent(t *testing.T) {
	l := newTestLedger(t)
	fund(t, l, "1", 100)

	entry, err := l.Credit("1", 0, "mines_cashout", "")
	require.NoError(t, err)
	require.Nil(t, entry)

	history, err := l.History("1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestCompensateRestoresExactState(t *testing.T) {
	l := newTestLedger(t)
	fund(t, l, "1", 500)

	before, err := l.Balance("1")
	require.NoError(t, err)
	historyBefore, err := l.History("1", MaxHistory)
	require.NoError(t, err)

	entry, err := l.Debit("1", 100, "mines_wager", "")
	require.NoError(t, err)

	require.NoError(t, l.Compensate(entry))

	after, err := l.Balance("1")
	require.NoError(t, err)
	require.Equal(t, before.Coins, after.Coins)

	historyAfter, err := l.History("1", MaxHistory)
	require.NoError(t, err)
	require.Len(t, historyAfter, len(historyBefore))
}

func TestCompensateIsOneShot(t *testing.T) {
	l := newTestLedger(t)
	fund(t, l, "1", 500)

	entry, err := l.Debit("1", 100, "mines_wager", "")
	require.NoError(t, err)

	require.NoError(t, l.Compensate(entry))
	require.Error(t, l.Compensate(entry))

	// The double call must not move the balance again
	user, err := l.Balance("1")
	require.NoError(t, err)
	require.EqualValues(t, 500, user.Coins)
}

func TestCompensateRejectsCredits(t *testing.T) {
	l := newTestLedger(t)

	entry, err := l.Credit("1", 100, "reward_daily", "")
	require.NoError(t, err)

	require.Error(t, l.Compensate(entry))
}

func TestCreditGems(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.CreditGems("1", 3, "reward_daily", ""))
	require.NoError(t, l.CreditGems("1", 0, "reward_daily", ""))

	user, err := l.Balance("1")
	require.NoError(t, err)
	require.EqualValues(t, 3, user.Gems)
	require.Zero(t, user.Coins)

	history, err := l.History("1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, CurrencyGems, history[0].Currency)
}

func TestHistoryHardCap(t *testing.T) {
	l := newTestLedger(t)

	for i := 0; i < 210; i++ {
		_, err := l.Credit("1", 1, "reward_daily", "")
		require.NoError(t, err)
	}

	history, err := l.History("1", 10_000)
	require.NoError(t, err)
	require.Len(t, history, MaxHistory)
}
