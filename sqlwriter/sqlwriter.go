// Package sqlwriter provides a relational backend adapter over a
// database/sql execution handle. Business operations are declared as
// statements: a request type, a query template, and a binder turning the
// request payload into query arguments. The *sql.DB (or transaction) is
// constructed and owned by the embedding application.
package sqlwriter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/c360/writeflow/pkg/retry"
	"github.com/c360/writeflow/writer"
)

// Execer is the narrow slice of *sql.DB the adapter needs. *sql.Tx and
// *sql.Conn satisfy it as well.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Statement declares one business operation against the relational store
type Statement struct {
	// Type is the request type string this statement serves
	Type string
	// Query is the SQL to execute
	Query string
	// Bind turns the request payload into the query's arguments. A bind
	// failure is a payload contract violation and is never retried.
	Bind func(payload any) ([]any, error)
}

// Writer is a relational backend adapter
type Writer struct {
	*writer.Base
	db Execer
}

// New creates a relational adapter claiming the given targets and serving
// the given statements
func New(name string, db Execer, targets []string, stmts ...Statement) (*Writer, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlwriter: db is nil")
	}
	w := &Writer{
		Base: writer.NewBase(name, writer.MatchTargets(targets...)),
		db:   db,
	}
	for _, stmt := range stmts {
		if stmt.Query == "" {
			return nil, fmt.Errorf("sqlwriter: statement %q has no query", stmt.Type)
		}
		if stmt.Bind == nil {
			return nil, fmt.Errorf("sqlwriter: statement %q has no binder", stmt.Type)
		}
		if err := w.RegisterHandler(writer.NewHandler(stmt.Type, w.handler(stmt))); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Writer) handler(stmt Statement) func(ctx context.Context, req writer.Request) (writer.Result, error) {
	return func(ctx context.Context, req writer.Request) (writer.Result, error) {
		args, err := stmt.Bind(req.Payload)
		if err != nil {
			return writer.Result{}, retry.NonRetryable(fmt.Errorf("sqlwriter: bind %q: %w", stmt.Type, err))
		}

		res, err := w.db.ExecContext(ctx, stmt.Query, args...)
		if err != nil {
			return writer.Result{}, err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			// Some drivers cannot report affected rows; the write itself
			// succeeded.
			affected = -1
		}
		return writer.Result{
			Message: fmt.Sprintf("statement %q executed", stmt.Type),
			Data:    map[string]int64{"rows_affected": affected},
		}, nil
	}
}
