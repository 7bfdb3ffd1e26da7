package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"scaenahub/internal/models"
)

// Compile-time check
var _ Store = (*pgStore)(nil)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

type pgStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgStore creates a PostgreSQL-backed Store over a pgx pool.
func NewPgStore(pool *pgxpool.Pool, logger *zap.Logger) Store {
	return &pgStore{
		pool:   pool,
		logger: logger.Named("PgStore"),
	}
}

func (s *pgStore) Write(ctx context.Context, table string, op Operation, key string, fields map[string]any) error {
	logFields := []zap.Field{
		zap.String("table", table),
		zap.String("op", string(op)),
		zap.String("key", key),
	}
	s.logger.Debug("Writing row", logFields...)

	query, args, err := buildWriteQuery(table, op, key, fields)
	if err != nil {
		s.logger.Error("Failed to build write query", append(logFields, zap.Error(err))...)
		return models.InternalError(table, err)
	}

	commandTag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			s.logger.Warn("Unique violation on write", append(logFields, zap.String("constraint", pgErr.ConstraintName))...)
			return models.ConflictError(table, "already exists")
		}
		s.logger.Error("Failed to write row", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to %s into %s: %w", strings.ToLower(string(op)), table, err)
	}

	if (op == OpUpdate || op == OpDelete) && commandTag.RowsAffected() == 0 {
		s.logger.Warn("Write matched no rows", logFields...)
		return models.NotFoundError(table)
	}

	return nil
}

func (s *pgStore) Select(ctx context.Context, dest any, query string, args ...any) error {
	if err := pgxscan.Select(ctx, s.pool, dest, query, args...); err != nil {
		s.logger.Error("Select failed", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("select failed: %w", err)
	}
	return nil
}

func (s *pgStore) Get(ctx context.Context, dest any, query string, args ...any) error {
	err := pgxscan.Get(ctx, s.pool, dest, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		s.logger.Error("Get failed", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("get failed: %w", err)
	}
	return nil
}

func (s *pgStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	commandTag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, models.ConflictError("row", "already exists")
		}
		s.logger.Error("Exec failed", zap.String("query", query), zap.Error(err))
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

// buildWriteQuery renders the generic (table, op, key, fields) write into SQL.
// Column order is sorted so generated statements are deterministic.
func buildWriteQuery(table string, op Operation, key string, fields map[string]any) (string, []any, error) {
	switch op {
	case OpInsert:
		columns := sortedColumns(fields)
		placeholders := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = fields[col]
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		return query, args, nil

	case OpUpdate:
		if len(fields) == 0 {
			return "", nil, fmt.Errorf("update of %s with no fields", table)
		}
		columns := sortedColumns(fields)
		assignments := make([]string, len(columns))
		args := make([]any, 0, len(columns)+1)
		for i, col := range columns {
			assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
			args = append(args, fields[col])
		}
		args = append(args, key)
		query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
			table, strings.Join(assignments, ", "), len(columns)+1)
		return query, args, nil

	case OpDelete:
		return fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), []any{key}, nil

	default:
		return "", nil, fmt.Errorf("unsupported write operation %q", op)
	}
}

func sortedColumns(fields map[string]any) []string {
	columns := make([]string, 0, len(fields))
	for col := range fields {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
