// Package call contains the execution side of the gateway: the raw
// transactional executor that runs a named store routine under a principal,
// and the typed dispatcher that folds validation, execution, and response
// shaping into the uniform envelope.
package call

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/model"
)

// Executor runs one validated call against the data store and returns its
// rows. Implementations must treat params as opaque bound values.
type Executor interface {
	Execute(
		ctx context.Context,
		principalID int64,
		call model.CallName,
		params model.RawParams,
		typ model.CallType,
		page model.Pagination,
	) ([]model.Row, error)
}

// txBeginner is the slice of pgxpool.Pool the executor needs. Pool.Begin
// acquires a connection and returns it to the pool when the transaction
// commits or rolls back.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgExecutor executes calls against PostgreSQL through a pgx pool. Each call
// runs in its own transaction: the principal id is set as a
// transaction-local session variable for the store's row-level-security
// policies, then the routine is invoked, then the transaction commits or
// rolls back as a unit.
type PgExecutor struct {
	db      txBeginner
	timeout time.Duration
	logger  *zap.Logger
}

// NewPgExecutor creates a PgExecutor. A zero timeout disables the per-call
// deadline.
func NewPgExecutor(pool *pgxpool.Pool, timeout time.Duration, logger *zap.Logger) *PgExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PgExecutor{db: pool, timeout: timeout, logger: logger}
}

// principalSetting is the session variable the store's row-level-security
// policies read. It is set per transaction (set_config third argument true)
// so concurrent callers on pooled connections never observe each other.
const principalSetting = "app.current_user_id"

// Execute implements Executor.
func (e *PgExecutor) Execute(
	ctx context.Context,
	principalID int64,
	call model.CallName,
	params model.RawParams,
	typ model.CallType,
	page model.Pagination,
) ([]model.Row, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	// No-op once Commit has succeeded; otherwise guarantees the transaction
	// never leaks back to the pool open.
	defer tx.Rollback(ctx)

	// The principal id is bound, never interpolated, even though it is
	// numeric here. See the statement builder for the call-name rule.
	_, err = tx.Exec(ctx,
		"SELECT set_config($1, $2, true)",
		principalSetting, strconv.FormatInt(principalID, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("set principal: %w", err)
	}

	stmt, args := buildStatement(call, params, typ, page)

	var rows []model.Row
	if typ == model.CallTypeMutation {
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			e.logger.Warn("call failed",
				zap.String("call", string(call)),
				zap.Error(err),
			)
			return nil, err
		}
	} else {
		rows, err = e.queryRows(ctx, tx, stmt, args)
		if err != nil {
			e.logger.Warn("call failed",
				zap.String("call", string(call)),
				zap.Error(err),
			)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rows, nil
}

func (e *PgExecutor) queryRows(ctx context.Context, tx pgx.Tx, stmt string, args []any) ([]model.Row, error) {
	rows, err := tx.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	out := make([]model.Row, 0)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(model.Row, len(descs))
		for i, d := range descs {
			row[d.Name] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// buildStatement assembles the dynamic invocation. Interpolating the call
// name into the statement text is safe only because CallName is a closed
// constant set that never carries request input; every parameter value and
// the pagination bounds are bound through placeholders.
func buildStatement(
	call model.CallName,
	params model.RawParams,
	typ model.CallType,
	page model.Pagination,
) (string, []any) {
	placeholders := make([]string, len(params))
	for i := range params {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	argList := strings.Join(placeholders, ", ")

	if typ == model.CallTypeMutation {
		return fmt.Sprintf("CALL %s(%s)", call, argList), params
	}

	page = page.Normalize()
	n := len(params)
	stmt := fmt.Sprintf(
		"SELECT * FROM %s(%s) LIMIT $%d OFFSET $%d",
		call, argList, n+1, n+2,
	)
	args := make([]any, 0, n+2)
	args = append(args, params...)
	args = append(args, page.Limit(), page.Offset())
	return stmt, args
}
