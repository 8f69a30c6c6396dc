package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQL database connection
type DB struct {
	conn *sql.DB
}

// User is one wallet row per Discord account. Coins are the primary
// currency used for wagers; gems are a bonus currency from rewards.
type User struct {
	ID        int64
	DiscordID string
	Coins     int64
	Gems      int64
	CreatedAt time.Time
}

// Transaction is one append-only ledger row describing a balance change.
type Transaction struct {
	ID           int64
	UserID       int64
	Amount       int64
	BalanceAfter int64
	Currency     string
	Kind         string
	Context      string
	CreatedAt    time.Time
}

// RewardState tracks one periodic reward cooldown per user.
type RewardState struct {
	ID            int64
	UserID        int64
	RewardKind    string
	LastClaimedAt sql.NullTime
	NextResetAt   sql.NullTime
	TotalClaims   int64
}

// NewDB creates a new database connection and initializes tables
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}

	// Initialize tables
	if err := db.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initTables creates the necessary database tables
func (db *DB) initTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		discord_id TEXT NOT NULL UNIQUE,
		coins INTEGER NOT NULL DEFAULT 0,
		gems INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		amount INTEGER NOT NULL,
		balance_after INTEGER NOT NULL,
		currency TEXT NOT NULL,
		kind TEXT NOT NULL,
		context TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);

	CREATE TABLE IF NOT EXISTS reward_states (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		reward_kind TEXT NOT NULL,
		last_claimed_at DATETIME,
		next_reset_at DATETIME,
		total_claims INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, reward_kind)
	);
	`

	_, err := db.conn.Exec(query)
	return err
}

// GetOrCreateUser returns the wallet for a Discord account, creating an
// empty one on first contact.
func (db *DB) GetOrCreateUser(discordID string) (*User, error) {
	user, err := db.getUser(discordID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	_, err = db.conn.Exec(
		`INSERT INTO users (discord_id, coins, gems) VALUES (?, 0, 0)`,
		discordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err = db.getUser(discordID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user missing after insert")
	}
	return user, nil
}

func (db *DB) getUser(discordID string) (*User, error) {
	row := db.conn.QueryRow(
		`SELECT id, discord_id, coins, gems, created_at FROM users WHERE discord_id = ?`,
		discordID,
	)

	var u User
	err := row.Scan(&u.ID, &u.DiscordID, &u.Coins, &u.Gems, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UserByID loads a wallet by its primary key.
func (db *DB) UserByID(userID int64) (*User, error) {
	row := db.conn.QueryRow(
		`SELECT id, discord_id, coins, gems, created_at FROM users WHERE id = ?`,
		userID,
	)

	var u User
	if err := row.Scan(&u.ID, &u.DiscordID, &u.Coins, &u.Gems, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &u, nil
}

// UpdateBalance overwrites both balances and returns the stored row.
func (db *DB) UpdateBalance(userID, coins, gems int64) (*User, error) {
	_, err := db.conn.Exec(
		`UPDATE users SET coins = ?, gems = ? WHERE id = ?`,
		coins, gems, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	row := db.conn.QueryRow(
		`SELECT id, discord_id, coins, gems, created_at FROM users WHERE id = ?`,
		userID,
	)
	var u User
	if err := row.Scan(&u.ID, &u.DiscordID, &u.Coins, &u.Gems, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &u, nil
}

// InsertTransaction appends a ledger row and returns it with its assigned id.
func (db *DB) InsertTransaction(userID, amount, balanceAfter int64, currency, kind, context string) (*Transaction, error) {
	result, err := db.conn.Exec(
		`INSERT INTO transactions (user_id, amount, balance_after, currency, kind, context)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, amount, balanceAfter, currency, kind, context,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction id: %w", err)
	}

	row := db.conn.QueryRow(
		`SELECT id, user_id, amount, balance_after, currency, kind, COALESCE(context, ''), created_at
		 FROM transactions WHERE id = ?`,
		id,
	)
	var tx Transaction
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.BalanceAfter, &tx.Currency, &tx.Kind, &tx.Context, &tx.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to reload transaction: %w", err)
	}
	return &tx, nil
}

// maxHistoryLimit caps transaction history reads regardless of the
// requested limit.
const maxHistoryLimit = 200

// RecentTransactions returns the most recent ledger rows for a user,
// newest first.
func (db *DB) RecentTransactions(userID int64, limit int) ([]Transaction, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := db.conn.Query(
		`SELECT id, user_id, amount, balance_after, currency, kind, COALESCE(context, ''), created_at
		 FROM transactions WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.BalanceAfter, &tx.Currency, &tx.Kind, &tx.Context, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return list, nil
}

// DeleteTransaction removes one ledger row. Used only when rolling back a
// pending wager; everything else is append-only.
func (db *DB) DeleteTransaction(transactionID int64) error {
	result, err := db.conn.Exec(`DELETE FROM transactions WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d not found", transactionID)
	}
	return nil
}

// GetRewardStates returns all reward cooldown rows for a user.
func (db *DB) GetRewardStates(userID int64) ([]RewardState, error) {
	rows, err := db.conn.Query(
		`SELECT id, user_id, reward_kind, last_claimed_at, next_reset_at, total_claims
		 FROM reward_states WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reward states: %w", err)
	}
	defer rows.Close()

	var list []RewardState
	for rows.Next() {
		var rs RewardState
		if err := rows.Scan(&rs.ID, &rs.UserID, &rs.RewardKind, &rs.LastClaimedAt, &rs.NextResetAt, &rs.TotalClaims); err != nil {
			return nil, fmt.Errorf("failed to scan reward state: %w", err)
		}
		list = append(list, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reward states: %w", err)
	}
	return list, nil
}

// UpsertRewardState creates or replaces a reward cooldown row.
func (db *DB) UpsertRewardState(userID int64, rewardKind string, lastClaimedAt, nextResetAt time.Time, totalClaims int64) (*RewardState, error) {
	_, err := db.conn.Exec(
		`INSERT INTO reward_states (user_id, reward_kind, last_claimed_at, next_reset_at, total_claims)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, reward_kind)
		 DO UPDATE SET
			last_claimed_at = excluded.last_claimed_at,
			next_reset_at = excluded.next_reset_at,
			total_claims = excluded.total_claims`,
		userID, rewardKind, lastClaimedAt, nextResetAt, totalClaims,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert reward state: %w", err)
	}

	row := db.conn.QueryRow(
		`SELECT id, user_id, reward_kind, last_claimed_at, next_reset_at, total_claims
		 FROM reward_states WHERE user_id = ? AND reward_kind = ?`,
		userID, rewardKind,
	)
	var rs RewardState
	if err := row.Scan(&rs.ID, &rs.UserID, &rs.RewardKind, &rs.LastClaimedAt, &rs.NextResetAt, &rs.TotalClaims); err != nil {
		return nil, fmt.Errorf("failed to reload reward state: %w", err)
	}
	return &rs, nil
}
