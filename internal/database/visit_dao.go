package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

type VisitDAO struct {
	Logger *slog.Logger
	*DB
}

func NewVisitDAO(logger *slog.Logger, db *DB) *VisitDAO {
	return &VisitDAO{
		Logger: logger.With("dao", "visit"),
		DB:     db,
	}
}

func (dao *VisitDAO) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	logger := dao.Logger.With("query", "listByPrefix")

	query, args, err := dao.Builder.
		Select("visit_number").
		From("visits").
		Where(squirrel.Like{"visit_number": prefix + "%"}).
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var numbers []string
	if err := dao.SelectContext(ctx, &numbers, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	return numbers, nil
}

func (dao *VisitDAO) Exists(ctx context.Context, visitNumber string) (bool, error) {
	query, args, err := dao.Builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("visits").
		Where(squirrel.Eq{"visit_number": visitNumber}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	dao.Logger.Debug("build query", "query", "exists", "sql", query, "args", args)

	var exists bool
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

type FindVisitFilter struct {
	PatientLN *string
}

func (dao *VisitDAO) Find(ctx context.Context, filter FindVisitFilter, opts FindOptions) ([]model.Visit, error) {
	logger := dao.Logger.With("query", "find")

	equals := squirrel.Eq{}
	if filter.PatientLN != nil {
		equals["patient_ln"] = *filter.PatientLN
	}

	query, args, err := opts.apply(dao.Builder.
		Select("*").
		From("visits").
		Where(equals).
		OrderBy("visit_date DESC", "visit_number DESC")).
		ToSql()
	if err != nil {
		return []model.Visit{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	visits := make([]model.Visit, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &visits, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Visit{}, err
	}

	logger.Debug("success query execute", "countVisits", len(visits))

	return visits, nil
}

func (dao *VisitDAO) GetByNumber(ctx context.Context, visitNumber string) (model.Visit, error) {
	logger := dao.Logger.With("query", "getByNumber")

	query, args, err := dao.Builder.
		Select("*").
		From("visits").
		Where(squirrel.Eq{"visit_number": visitNumber}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Visit{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var visit model.Visit
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&visit); err != nil {
		if IsNoRows(err) {
			return model.Visit{}, model.NewError("visit", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Visit{}, err
	}

	return visit, nil
}

type InsertVisitDTO struct {
	VisitNumber string
	PatientLN   string
	VisitDate   time.Time
	Department  string
	Symptoms    string
	Note        string
	CreatedBy   string
}

func (dao *VisitDAO) Insert(ctx context.Context, dto InsertVisitDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("visits").
		Columns("visit_number", "patient_ln", "visit_date", "department", "symptoms", "note", "created_by").
		Values(dto.VisitNumber, dto.PatientLN, dto.VisitDate, dto.Department, dto.Symptoms, dto.Note, dto.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "visitNumber", dto.VisitNumber)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		switch {
		case IsUniqueViolation(err):
			logger.Info("visit number already taken", "visitNumber", dto.VisitNumber)
			return 0, model.NewError("visit number", model.ErrExists)
		case IsForeignKeyViolation(err):
			return 0, model.NewError("patient", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}
