package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

const signInEventColumns = `id, user_id, email, role, kind, remote_addr, occurred_at`

const defaultRecentLimit = 50

// SignInAuditRepo persists authentication events to Postgres.
type SignInAuditRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSignInAuditRepo creates a new SignInAuditRepo instance with the given database connection.
func NewSignInAuditRepo(db *sql.DB) *SignInAuditRepo {
	return &SignInAuditRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// Record inserts one audit event. Missing IDs and timestamps are filled in.
func (r *SignInAuditRepo) Record(ctx context.Context, event ports.SignInEvent) error {
	if event.Email == "" {
		return errors.New("event email is required")
	}
	if event.Kind == "" {
		return errors.New("event kind is required")
	}

	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = r.timeProvider.Now()
	}

	query := `INSERT INTO sign_in_events (` + signInEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		id, event.UserID, event.Email, string(event.Role), string(event.Kind),
		event.RemoteAddr, occurredAt)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("record sign-in event: %w", err))
	}
	return nil
}

// ListRecent returns the newest events, newest first. A non-positive limit
// falls back to the default page size.
func (r *SignInAuditRepo) ListRecent(ctx context.Context, limit int) ([]ports.SignInEvent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `SELECT ` + signInEventColumns + ` FROM sign_in_events
		ORDER BY occurred_at DESC LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list sign-in events: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var events []ports.SignInEvent
	for rows.Next() {
		var (
			ev         ports.SignInEvent
			role, kind string
			occurredAt time.Time
		)
		if scanErr := rows.Scan(&ev.ID, &ev.UserID, &ev.Email, &role, &kind,
			&ev.RemoteAddr, &occurredAt); scanErr != nil {
			return nil, apperrors.MapDBError(fmt.Errorf("scan sign-in event: %w", scanErr))
		}
		ev.Role = domainauth.ParseRole(role)
		ev.Kind = ports.SignInEventKind(kind)
		ev.OccurredAt = occurredAt
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("iterate sign-in events: %w", err))
	}
	return events, nil
}
