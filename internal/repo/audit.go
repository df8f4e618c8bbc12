package repo

import (
	"context"
	"database/sql"

	"github.com/solestash/solestash/internal/models"
)

// AuditRepo persists the mutation trail written by the API.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. action is create|update|delete; resourceType is shoe|user.
func (r *AuditRepo) Log(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, resource_type, resource_id, details) VALUES ($1, $2, $3, $4, $5)`,
		userID, action, resourceType, resourceID, details,
	)
	return translateErr(err)
}

// LogAnonymous records an audit entry with no author. Used for actions
// whose actor row is already gone when the entry is written, such as a
// self-delete; a user_id reference would violate the foreign key there.
func (r *AuditRepo) LogAnonymous(ctx context.Context, action, resourceType string, resourceID int, details string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, resource_type, resource_id, details) VALUES (NULL, $1, $2, $3, $4)`,
		action, resourceType, resourceID, details,
	)
	return translateErr(err)
}

// List returns recent audit entries, newest first. Entries whose author was
// deleted come back with UserID 0.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(user_id, 0), action, resource_type, resource_id, COALESCE(details,''), created_at FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, &e.CreatedAt); err != nil {
			return nil, translateErr(err)
		}
		entries = append(entries, e)
	}
	return entries, translateErr(rows.Err())
}
