package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/db/migrations"
	"github.com/fadedpez/tucotable/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

const timestampLayout = time.RFC3339Nano

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens or creates the ledger database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error creating database directory", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error opening database", err)
	}

	if _, err := migrations.NewLedgerMigrator(db, nil).MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

// GetAccount retrieves an account snapshot
func (r *SQLiteRepository) GetAccount(ctx context.Context, accountID string) (*entities.AccountSnapshot, error) {
	query := `SELECT id, name, role, owner, balance, profit_loss, updated_at FROM accounts WHERE id = ?`

	var account entities.AccountSnapshot
	var owner sql.NullString
	var updatedAt string

	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID,
		&account.Name,
		&account.Role,
		&owner,
		&account.Balance,
		&account.ProfitLoss,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, types.WrapError(types.ErrDatabaseError, "error getting account", err)
	}

	account.Owner = owner.String
	if account.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &account, nil
}

// SaveAccount creates or updates an account snapshot
func (r *SQLiteRepository) SaveAccount(ctx context.Context, account *entities.AccountSnapshot) error {
	query := `
		INSERT INTO accounts (id, name, role, owner, balance, profit_loss, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			owner = excluded.owner,
			balance = excluded.balance,
			profit_loss = excluded.profit_loss,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Name, account.Role, account.Owner,
		account.Balance, account.ProfitLoss, account.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError,
			fmt.Sprintf("error saving account %s", account.ID), err)
	}
	return nil
}

// AddTransactions records ledger rows in one transaction
func (r *SQLiteRepository) AddTransactions(ctx context.Context, transactions []*entities.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "error starting transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, account_id, amount, direction, counterparty, success, description, timestamp, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "error preparing insert", err)
	}
	defer stmt.Close()

	for _, row := range transactions {
		_, err := stmt.ExecContext(ctx,
			row.ID,
			row.AccountID,
			row.Amount,
			string(row.Direction),
			row.Counterparty,
			row.Success,
			row.Description,
			row.Timestamp.UTC().Format(timestampLayout),
			row.BalanceAfter,
		)
		if err != nil {
			return types.WrapError(types.ErrDatabaseError,
				fmt.Sprintf("error adding transaction %s", row.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.ErrDatabaseError, "error committing transactions", err)
	}
	return nil
}

// GetTransactions retrieves the most recent rows for an account
func (r *SQLiteRepository) GetTransactions(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, account_id, amount, direction, counterparty, success, description, timestamp, balance_after
		FROM transactions
		WHERE account_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error querying transactions", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var row entities.Transaction
		var direction, timestamp string
		var counterparty, description sql.NullString

		if err := rows.Scan(
			&row.ID,
			&row.AccountID,
			&row.Amount,
			&direction,
			&counterparty,
			&row.Success,
			&description,
			&timestamp,
			&row.BalanceAfter,
		); err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "error scanning transaction", err)
		}

		row.Direction = entities.Direction(direction)
		row.Counterparty = counterparty.String
		row.Description = description.String
		if row.Timestamp, err = parseTimestamp(timestamp); err != nil {
			return nil, err
		}
		transactions = append(transactions, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error iterating transactions", err)
	}

	return transactions, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// parseTimestamp accepts the layout we write plus SQLite's default format
func parseTimestamp(value string) (time.Time, error) {
	formats := []string{
		timestampLayout,
		"2006-01-02 15:04:05", // SQLite default format
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, types.WrapError(types.ErrDatabaseError,
		fmt.Sprintf("error parsing timestamp '%s'", value), parseErr)
}
