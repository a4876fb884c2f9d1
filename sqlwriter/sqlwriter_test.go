package sqlwriter

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wferrors "github.com/c360/writeflow/errors"
	"github.com/c360/writeflow/writer"
)

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, fmt.Errorf("not supported") }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// fakeDB records executed statements
type fakeDB struct {
	mu      sync.Mutex
	queries []string
	args    [][]any
	err     error
}

func (db *fakeDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.err != nil {
		return nil, db.err
	}
	db.queries = append(db.queries, query)
	db.args = append(db.args, args)
	return fakeResult{rows: 1}, nil
}

type profile struct {
	ID   int64
	Name string
}

func updateProfileStmt() Statement {
	return Statement{
		Type:  "user_profile_update",
		Query: "UPDATE user_profiles SET name = ? WHERE id = ?",
		Bind: func(payload any) ([]any, error) {
			p, ok := payload.(profile)
			if !ok {
				return nil, fmt.Errorf("expected profile payload, got %T", payload)
			}
			return []any{p.Name, p.ID}, nil
		},
	}
}

func TestNew_Validation(t *testing.T) {
	db := &fakeDB{}

	_, err := New("mysqlWriter", nil, []string{"mysql.main"})
	assert.Error(t, err, "nil db")

	_, err = New("mysqlWriter", db, []string{"mysql.main"}, Statement{Type: "t", Bind: func(any) ([]any, error) { return nil, nil }})
	assert.Error(t, err, "missing query")

	_, err = New("mysqlWriter", db, []string{"mysql.main"}, Statement{Type: "t", Query: "DELETE FROM x"})
	assert.Error(t, err, "missing binder")

	stmt := updateProfileStmt()
	_, err = New("mysqlWriter", db, []string{"mysql.main"}, stmt, stmt)
	assert.Error(t, err, "duplicate type")
}

func TestWriter_ExecutesStatement(t *testing.T) {
	db := &fakeDB{}
	w, err := New("mysqlWriter", db, []string{"mysql.main"}, updateProfileStmt())
	require.NoError(t, err)

	res, err := w.Write(context.Background(), writer.Request{
		Target:  "mysql.main",
		Type:    "user_profile_update",
		Payload: profile{ID: 1, Name: "A"},
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, map[string]int64{"rows_affected": 1}, res.Data)

	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "UPDATE user_profiles")
	assert.Equal(t, []any{"A", int64(1)}, db.args[0])
}

func TestWriter_BindFailureIsTerminal(t *testing.T) {
	db := &fakeDB{}
	w, err := New("mysqlWriter", db, []string{"mysql.main"}, updateProfileStmt())
	require.NoError(t, err)

	_, err = w.Write(context.Background(), writer.Request{
		Target:  "mysql.main",
		Type:    "user_profile_update",
		Payload: "not a profile",
	})

	require.Error(t, err)
	assert.True(t, wferrors.Is(err, wferrors.KindBackend))
	assert.False(t, wferrors.IsRetryable(err), "payload contract violations must not be retried")
	assert.Empty(t, db.queries, "bind failures must not reach the database")
}

func TestWriter_ExecFailureStaysRetryable(t *testing.T) {
	db := &fakeDB{err: fmt.Errorf("driver: bad connection")}
	w, err := New("mysqlWriter", db, []string{"mysql.main"}, updateProfileStmt())
	require.NoError(t, err)

	_, err = w.Write(context.Background(), writer.Request{
		Target:  "mysql.main",
		Type:    "user_profile_update",
		Payload: profile{ID: 1, Name: "A"},
	})

	require.Error(t, err)
	assert.True(t, wferrors.Is(err, wferrors.KindBackend))
	assert.True(t, wferrors.IsRetryable(err))
}

func TestWriter_UnknownType(t *testing.T) {
	w, err := New("mysqlWriter", &fakeDB{}, []string{"mysql.main"}, updateProfileStmt())
	require.NoError(t, err)

	_, err = w.Write(context.Background(), writer.Request{
		Target: "mysql.main", Type: "user_delete", Payload: 1,
	})

	assert.True(t, wferrors.Is(err, wferrors.KindTypeNotSupported))
}
