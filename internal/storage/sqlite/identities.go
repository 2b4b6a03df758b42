package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spendwise-app/SpendWise/internal/models"
	"github.com/spendwise-app/SpendWise/internal/storage"
)

// Edge kinds stored in identity_edges.
const (
	edgeFriend  = "friend"
	edgeRequest = "request"
	edgeSent    = "sent"
)

const identityColumns = `id, email, display_name, password_hash, created_at, updated_at`

// CreateIdentity inserts a new identity and its friend-graph sets.
func (r *repo) CreateIdentity(ctx context.Context, identity *models.Identity) error {
	identity.Email = normalizeEmail(identity.Email)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO identities (`+identityColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		identity.ID,
		identity.Email,
		identity.DisplayName,
		identity.PasswordHash,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return r.writeEdges(ctx, identity)
}

// GetIdentity retrieves an identity by ID.
func (r *repo) GetIdentity(ctx context.Context, id string) (*models.Identity, error) {
	identity, err := r.scanIdentity(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, fmt.Errorf("identity %s: %w", id, storage.ErrNotFound)
	}
	if err := r.readEdges(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// GetIdentityByEmail retrieves an identity by email address.
func (r *repo) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	identity, err := r.scanIdentity(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = ?`, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, fmt.Errorf("identity with email %s: %w", email, storage.ErrNotFound)
	}
	if err := r.readEdges(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// GetIdentitiesByIDs retrieves multiple identities by their IDs.
// Only profile fields are loaded; friend-graph sets are left empty.
func (r *repo) GetIdentitiesByIDs(ctx context.Context, ids []string) (map[string]*models.Identity, error) {
	identities := make(map[string]*models.Identity, len(ids))
	if len(ids) == 0 {
		return identities, nil
	}

	query := `SELECT ` + identityColumns + ` FROM identities WHERE id IN (?` + repeatPlaceholder(len(ids)-1) + `)`
	rows, err := r.q.QueryContext(ctx, query, inArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get identities by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		identity := &models.Identity{}
		if err := rows.Scan(
			&identity.ID,
			&identity.Email,
			&identity.DisplayName,
			&identity.PasswordHash,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		identities[identity.ID] = identity
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identities: %w", err)
	}

	return identities, nil
}

// SaveIdentity overwrites the identity row and replaces its edges.
func (r *repo) SaveIdentity(ctx context.Context, identity *models.Identity) error {
	identity.UpdatedAt = time.Now().Unix()
	identity.Email = normalizeEmail(identity.Email)

	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET email = ?, display_name = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		identity.Email, identity.DisplayName, identity.PasswordHash, identity.UpdatedAt, identity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated identity: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("identity %s: %w", identity.ID, storage.ErrNotFound)
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM identity_edges WHERE identity_id = ?`, identity.ID); err != nil {
		return fmt.Errorf("failed to clear identity edges: %w", err)
	}

	return r.writeEdges(ctx, identity)
}

// scanIdentity runs a single-row identity query. Returns nil, nil when no row matches.
func (r *repo) scanIdentity(ctx context.Context, query string, arg string) (*models.Identity, error) {
	identity := &models.Identity{}
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&identity.ID,
		&identity.Email,
		&identity.DisplayName,
		&identity.PasswordHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return identity, nil
}

func (r *repo) readEdges(ctx context.Context, identity *models.Identity) error {
	rows, err := r.q.QueryContext(ctx,
		`SELECT kind, other_id FROM identity_edges WHERE identity_id = ? ORDER BY kind, position`,
		identity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get identity edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, other string
		if err := rows.Scan(&kind, &other); err != nil {
			return fmt.Errorf("failed to scan identity edge: %w", err)
		}
		switch kind {
		case edgeFriend:
			identity.Friends = append(identity.Friends, other)
		case edgeRequest:
			identity.FriendRequests = append(identity.FriendRequests, other)
		case edgeSent:
			identity.SentRequests = append(identity.SentRequests, other)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate identity edges: %w", err)
	}

	return nil
}

func (r *repo) writeEdges(ctx context.Context, identity *models.Identity) error {
	sets := []struct {
		kind string
		ids  []string
	}{
		{edgeFriend, identity.Friends},
		{edgeRequest, identity.FriendRequests},
		{edgeSent, identity.SentRequests},
	}

	for _, set := range sets {
		for pos, other := range set.ids {
			_, err := r.q.ExecContext(ctx,
				`INSERT INTO identity_edges (identity_id, kind, other_id, position) VALUES (?, ?, ?, ?)`,
				identity.ID, set.kind, other, pos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert %s edge: %w", set.kind, err)
			}
		}
	}

	return nil
}

// normalizeEmail makes email lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
