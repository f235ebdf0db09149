package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable expense record store. Records are append
// only: there is no update or delete path.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert stores a new expense record and returns its assigned ID. The write
// either succeeds or surfaces the store's error to the caller; no retry.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, category, spend_date) VALUES (?, ?, ?)`,
		e.Amount.Cents, e.Category, e.Date)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date)

	return id, nil
}

// ListAll returns every expense record ordered by date descending, newest
// insert first within a date. Consumers treat the result as an unordered
// snapshot; the ordering exists for the history view.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, category, spend_date FROM expenses ORDER BY spend_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var records []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return records, nil
}
