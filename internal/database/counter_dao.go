package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
)

// CounterDAO keeps one atomically incremented sequence per (scope, bucket).
type CounterDAO struct {
	Logger *slog.Logger
	*DB
}

func NewCounterDAO(logger *slog.Logger, db *DB) *CounterDAO {
	return &CounterDAO{
		Logger: logger.With("dao", "counter"),
		DB:     db,
	}
}

// Advance sets the bucket's value to max(value, floor)+1 in a single
// statement and returns it. The row is created on first use.
func (dao *CounterDAO) Advance(ctx context.Context, scope, bucket string, floor int) (int, error) {
	query, args, err := dao.Builder.
		Insert("id_counters").
		Columns("scope", "bucket", "value").
		Values(scope, bucket, floor+1).
		Suffix("ON CONFLICT (scope, bucket) DO UPDATE SET " +
			"value = GREATEST(id_counters.value + 1, EXCLUDED.value), updated_at = now() " +
			"RETURNING value").
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("build query", "query", "advance", "sql", query, "args", args)

	var value int
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&value); err != nil {
		dao.Logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	return value, nil
}

// Peek returns max(value, floor)+1 for the bucket without writing.
func (dao *CounterDAO) Peek(ctx context.Context, scope, bucket string, floor int) (int, error) {
	query, args, err := dao.Builder.
		Select("value").
		From("id_counters").
		Where(squirrel.Eq{"scope": scope, "bucket": bucket}).
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("build query", "query", "peek", "sql", query, "args", args)

	var value int
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&value); err != nil {
		if !IsNoRows(err) {
			dao.Logger.Warn("failed query execute", "error", err)
			return 0, err
		}
	}

	if value < floor {
		value = floor
	}
	return value + 1, nil
}
