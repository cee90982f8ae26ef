package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories need. pgxmock
// satisfies it too, which is what the repository tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Querier is satisfied by both DB and pgx.Tx, so create statements can run
// inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// buildSetClauses turns a partial-update map into "col = $n" clauses, keeping
// only whitelisted columns. Columns are sorted so the generated SQL is stable.
func buildSetClauses(changes map[string]any, allowed map[string]bool) ([]string, []any) {
	cols := make([]string, 0, len(changes))
	for col := range changes {
		if allowed[col] {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)

	clauses := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, changes[col])
	}
	return clauses, args
}
