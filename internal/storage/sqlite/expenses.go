package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise-app/SpendWise/internal/models"
	"github.com/spendwise-app/SpendWise/internal/storage"
)

const expenseColumns = `id, owner_id, title, amount, category, date, created_by, settled_from, created_at`

// CreateExpense persists a new expense and its shares.
func (r *repo) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Category == "" {
		expense.Category = models.DefaultCategory
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	// Dates are stored as unix seconds; keep the caller's copy identical to what reads return.
	expense.Date = expense.Date.Truncate(time.Second).UTC()

	var settledFrom any
	if expense.SettledFrom != "" {
		settledFrom = expense.SettledFrom
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.OwnerID, expense.Title, expense.Amount, expense.Category,
		expense.Date.Unix(), expense.CreatedBy, settledFrom, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for pos, share := range expense.SharedWith {
		_, err = r.q.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, position, friend_id, amount, paid) VALUES (?, ?, ?, ?, ?)`,
			expense.ID, pos, share.Friend, share.Amount, share.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its shares.
func (r *repo) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(r.q.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.loadShares(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// SaveExpense updates the expense amount and the state of its shares.
func (r *repo) SaveExpense(ctx context.Context, expense *models.Expense) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, category = ? WHERE id = ?`,
		expense.Title, expense.Amount, expense.Category, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated expense: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	for _, share := range expense.SharedWith {
		_, err := r.q.ExecContext(ctx,
			`UPDATE expense_shares SET amount = ?, paid = ? WHERE expense_id = ? AND friend_id = ?`,
			share.Amount, share.Paid, expense.ID, share.Friend,
		)
		if err != nil {
			return fmt.Errorf("failed to update share: %w", err)
		}
	}

	return nil
}

// ListExpensesSharedWith retrieves every expense with a share for identityID.
func (r *repo) ListExpensesSharedWith(ctx context.Context, identityID string) ([]*models.Expense, error) {
	return r.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE id IN (SELECT expense_id FROM expense_shares WHERE friend_id = ?)
		 ORDER BY date DESC, created_at DESC`,
		identityID,
	)
}

// ListExpensesByOwner retrieves the owner's expenses.
func (r *repo) ListExpensesByOwner(ctx context.Context, ownerID string) ([]*models.Expense, error) {
	return r.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE owner_id = ? ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
}

func (r *repo) listExpenses(ctx context.Context, query string, arg string) ([]*models.Expense, error) {
	rows, err := r.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Shares are loaded after the expense rows are closed; a transaction
	// holds a single connection and cannot interleave result sets.
	if err := r.loadShares(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadShares fills SharedWith for every expense in one query.
func (r *repo) loadShares(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT expense_id, friend_id, amount, paid FROM expense_shares
		 WHERE expense_id IN (?`+repeatPlaceholder(len(ids)-1)+`)
		 ORDER BY expense_id, position`,
		inArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var share models.Share
		if err := rows.Scan(&expenseID, &share.Friend, &share.Amount, &share.Paid); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.SharedWith = append(e.SharedWith, share)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var date int64
	var settledFrom sql.NullString

	if err := row.Scan(
		&expense.ID, &expense.OwnerID, &expense.Title, &expense.Amount, &expense.Category,
		&date, &expense.CreatedBy, &settledFrom, &expense.CreatedAt,
	); err != nil {
		return nil, err
	}

	expense.Date = time.Unix(date, 0).UTC()
	if settledFrom.Valid {
		expense.SettledFrom = settledFrom.String
	}
	return expense, nil
}
