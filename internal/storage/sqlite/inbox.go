package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spendwise-app/SpendWise/internal/models"
)

// AppendInboxEntry adds a pending payment request to an identity's inbox.
func (r *repo) AppendInboxEntry(ctx context.Context, identityID string, entry models.InboxEntry) error {
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO inbox_entries (identity_id, expense_id, friend_id, name, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (identity_id, expense_id) DO UPDATE SET
		     friend_id = excluded.friend_id,
		     name = excluded.name,
		     created_at = excluded.created_at`,
		identityID, entry.ExpenseID, entry.Friend, entry.Name, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append inbox entry: %w", err)
	}

	return nil
}

// RemoveInboxEntry deletes the entry for expenseID and returns what was removed.
func (r *repo) RemoveInboxEntry(ctx context.Context, identityID, expenseID string) (*models.InboxEntry, error) {
	entry := &models.InboxEntry{ExpenseID: expenseID}
	err := r.q.QueryRowContext(ctx,
		`DELETE FROM inbox_entries WHERE identity_id = ? AND expense_id = ?
		 RETURNING friend_id, name, created_at`,
		identityID, expenseID,
	).Scan(&entry.Friend, &entry.Name, &entry.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove inbox entry: %w", err)
	}

	return entry, nil
}

// ListInbox retrieves an identity's pending entries, oldest first.
func (r *repo) ListInbox(ctx context.Context, identityID string) ([]models.InboxEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT expense_id, friend_id, name, created_at FROM inbox_entries
		 WHERE identity_id = ? ORDER BY created_at, expense_id`,
		identityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	defer rows.Close()

	var entries []models.InboxEntry
	for rows.Next() {
		var entry models.InboxEntry
		if err := rows.Scan(&entry.ExpenseID, &entry.Friend, &entry.Name, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inbox entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inbox: %w", err)
	}

	return entries, nil
}
