package rpc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// identPattern restricts function names to plain lower-case identifiers,
// since the name is interpolated into the query text.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresGateway invokes the same named backend functions directly over
// a database connection instead of the HTTP surface. The functions stay
// opaque; only the transport differs.
type PostgresGateway struct {
	db  *sql.DB
	log *zap.Logger
}

// NewPostgresGateway returns a gateway over an open database handle.
func NewPostgresGateway(db *sql.DB, log *zap.Logger) *PostgresGateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostgresGateway{db: db, log: log}
}

// OpenPostgres opens and pings a Postgres connection for the gateway.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Call executes SELECT json_agg over the named function with named-argument
// binding. Set-returning functions yield a JSON array of rows, scalar
// functions a one-element array, matching the shapes the HTTP surface
// produces and the decoding layer already tolerates.
func (g *PostgresGateway) Call(ctx context.Context, fn string, params map[string]any) (json.RawMessage, *Error) {
	requestID := uuid.NewString()
	start := time.Now()
	g.log.Debug("rpc call",
		zap.String("fn", fn),
		zap.String("request_id", requestID),
		zap.Any("params", redactParams(params)),
	)

	if !identPattern.MatchString(fn) {
		return nil, errorf("invalid function name %q", fn)
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, 0, len(names))
	bindings := make([]string, 0, len(names))
	for i, name := range names {
		if !identPattern.MatchString(name) {
			return nil, errorf("invalid parameter name %q for %s", name, fn)
		}
		bindings = append(bindings, fmt.Sprintf("%s => $%d", name, i+1))
		args = append(args, normalizeArg(params[name]))
	}

	query := fmt.Sprintf(`SELECT COALESCE(json_agg(t), 'null'::json) FROM %s(%s) AS t`,
		fn, strings.Join(bindings, ", "))

	var raw []byte
	err := g.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err != nil {
		callErr := mapPqError(fn, err)
		g.log.Warn("rpc failed",
			zap.String("fn", fn),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", callErr.Message),
			zap.String("code", callErr.Code),
		)
		return nil, callErr
	}

	g.log.Debug("rpc ok",
		zap.String("fn", fn),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return json.RawMessage(raw), nil
}

// normalizeArg converts composite parameter values to JSON text so the
// driver can bind them; scalars pass through and nil pointers bind NULL.
func normalizeArg(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return normalizeArg(rv.Elem().Interface())
	}
	switch v.(type) {
	case string, bool, int, int64, float64:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(data)
	}
}

// mapPqError carries the SQLSTATE code through so referential-integrity
// failures stay distinguishable from generic ones.
func mapPqError(fn string, err error) *Error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &Error{Message: pqErr.Message, Code: string(pqErr.Code)}
	}
	return errorf("call %s: %v", fn, err)
}
