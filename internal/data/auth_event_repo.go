package data

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adgate-io/adgate/internal/data/pgxutil"
	apperrors "github.com/adgate-io/adgate/internal/errors"
	"github.com/adgate-io/adgate/internal/ports"
)

// AuthEvent is a persisted authentication outcome.
type AuthEvent struct {
	ID         string    `db:"id"          json:"id"`
	Username   string    `db:"username"    json:"username"`
	Method     string    `db:"method"      json:"method"`
	Outcome    string    `db:"outcome"     json:"outcome"`
	Detail     string    `db:"detail"      json:"detail"`
	RemoteAddr string    `db:"remote_addr" json:"remote_addr"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

const authEventColumns = `id, username, method, outcome, detail, remote_addr, created_at`

// AuthEventRepo stores authentication events in PostgreSQL. Recording is
// best-effort: insert failures are logged and never surfaced to the caller.
type AuthEventRepo struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthEventRepo creates an AuthEventRepo backed by the given connection pool.
func NewAuthEventRepo(db *sql.DB, logger *slog.Logger) *AuthEventRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthEventRepo{db: db, logger: logger.With("component", "auth_events"), now: time.Now}
}

// Record inserts one auth event row.
func (r *AuthEventRepo) Record(ctx context.Context, event ports.AuditEvent) {
	if r == nil || r.db == nil {
		return
	}
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO auth_events (id, username, method, outcome, detail, remote_addr, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), event.Username, string(event.Method), event.Outcome, event.Detail, event.RemoteAddr, r.now().UTC())
		return execErr
	})
	if err != nil {
		r.logger.WarnContext(ctx, "failed to record auth event",
			"err", apperrors.MapDBError(err),
			"username", event.Username,
			"outcome", event.Outcome,
		)
	}
}

// Recent returns the newest auth events, optionally filtered by username.
func (r *AuthEventRepo) Recent(ctx context.Context, username string, limit int) ([]AuthEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT ` + authEventColumns + ` FROM auth_events ORDER BY created_at DESC, id DESC LIMIT $1`
	args := []any{limit}
	if username != "" {
		query = `SELECT ` + authEventColumns + ` FROM auth_events WHERE username = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
		args = []any{username, limit}
	}
	var out []AuthEvent
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectRows(rows, pgx.RowToStructByName[AuthEvent])
		return collectErr
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

var _ ports.AuditRecorder = (*AuthEventRepo)(nil)
