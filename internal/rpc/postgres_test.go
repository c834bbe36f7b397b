package rpc

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func setupGatewayMock(t *testing.T) (*PostgresGateway, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresGateway(db, nil), mock, func() { db.Close() }
}

func TestPostgresGateway_CallSuccess(t *testing.T) {
	g, mock, closeFn := setupGatewayMock(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT COALESCE\(json_agg\(t\), 'null'::json\) FROM branches_get\(\) AS t`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).
			AddRow([]byte(`[{"id":"b1","name":"وسط البلد"}]`)))

	data, callErr := g.Call(context.Background(), "branches_get", nil)
	if callErr != nil {
		t.Fatalf("unexpected error: %v", callErr)
	}
	if !strings.Contains(string(data), "b1") {
		t.Errorf("unexpected data: %s", data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGateway_NamedArgsSorted(t *testing.T) {
	g, mock, closeFn := setupGatewayMock(t)
	defer closeFn()

	// parameter names bind alphabetically for a deterministic query text
	mock.ExpectQuery(`FROM calculate_monthly_salary\(p_month => \$1, p_user_id => \$2, p_year => \$3\) AS t`).
		WithArgs(1, "u1", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).
			AddRow([]byte(`[{"final_salary":9500}]`)))

	_, callErr := g.Call(context.Background(), "calculate_monthly_salary", map[string]any{
		"p_user_id": "u1",
		"p_year":    2026,
		"p_month":   1,
	})
	if callErr != nil {
		t.Fatalf("unexpected error: %v", callErr)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGateway_ForeignKeyCode(t *testing.T) {
	g, mock, closeFn := setupGatewayMock(t)
	defer closeFn()

	mock.ExpectQuery(`FROM users_delete\(_id => \$1\) AS t`).
		WithArgs("u1").
		WillReturnError(&pq.Error{
			Code:    "23503",
			Message: `update or delete on table "users" violates foreign key constraint`,
		})

	_, callErr := g.Call(context.Background(), "users_delete", map[string]any{"_id": "u1"})
	if callErr == nil {
		t.Fatal("expected error")
	}
	if callErr.Code != "23503" || !callErr.IsForeignKeyViolation() {
		t.Errorf("expected foreign-key classification, got %+v", callErr)
	}
}

func TestPostgresGateway_RejectsBadIdentifiers(t *testing.T) {
	g, _, closeFn := setupGatewayMock(t)
	defer closeFn()

	if _, callErr := g.Call(context.Background(), "users_get; drop table users", nil); callErr == nil {
		t.Error("expected rejection of invalid function name")
	}
	if _, callErr := g.Call(context.Background(), "users_get", map[string]any{"bad name": 1}); callErr == nil {
		t.Error("expected rejection of invalid parameter name")
	}
}
