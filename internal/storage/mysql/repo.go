package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"airline_assistant/internal/domain"
)

type Repo struct {
	db      *sql.DB
	timeout time.Duration
}

// New wraps db. timeout bounds one InsertReview call, acquisition included;
// zero leaves the caller's context as the only bound.
func New(db *sql.DB, timeout time.Duration) *Repo { return &Repo{db: db, timeout: timeout} }

// InsertReview acquires a dedicated connection, inserts rv inside a
// transaction and commits. The connection goes back to the pool on every
// path, including context cancellation.
func (r *Repo) InsertReview(ctx context.Context, rv domain.ReviewRecord) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	return r.withConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: begin: %w", domain.ErrStorage, err)
		}
		// no-op once committed
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, insertReviewSQL, rv.Airline, rv.Rating, rv.Review); err != nil {
			return fmt.Errorf("%w: insert: %w", domain.ErrStorage, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: commit: %w", domain.ErrStorage, err)
		}
		return nil
	})
}

// withConn is the scoped acquisition: fn runs only with a live connection
// and the connection is released when fn returns.
func (r *Repo) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	defer conn.Close()
	return fn(conn)
}
