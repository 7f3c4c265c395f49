package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

const (
	_patientLNConstraint     = "patients_ln_key"
	_patientIDCardConstraint = "patients_id_card_key"
)

type PatientDAO struct {
	Logger *slog.Logger
	*DB
}

func NewPatientDAO(logger *slog.Logger, db *DB) *PatientDAO {
	return &PatientDAO{
		Logger: logger.With("dao", "patient"),
		DB:     db,
	}
}

// ListByPrefix returns every LN in the bucket, soft-deleted patients included.
func (dao *PatientDAO) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	logger := dao.Logger.With("query", "listByPrefix")

	query, args, err := dao.Builder.
		Select("ln").
		From("patients").
		Where(squirrel.Like{"ln": prefix + "%"}).
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var lns []string
	if err := dao.SelectContext(ctx, &lns, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	logger.Debug("success query execute", "countLNs", len(lns))

	return lns, nil
}

func (dao *PatientDAO) Exists(ctx context.Context, ln string) (bool, error) {
	query, args, err := dao.Builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("patients").
		Where(squirrel.Eq{"ln": ln}).
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

type FindPatientFilter struct {
	// Query matches LN, ID card, first or last name.
	Query *string
}

func (dao *PatientDAO) Find(ctx context.Context, filter FindPatientFilter, opts FindOptions) ([]model.Patient, error) {
	logger := dao.Logger.With("query", "find")

	where := squirrel.And{squirrel.Eq{"deleted_at": nil}}
	if filter.Query != nil {
		pattern := "%" + *filter.Query + "%"
		where = append(where, squirrel.Or{
			squirrel.Like{"ln": *filter.Query + "%"},
			squirrel.Like{"id_card": *filter.Query + "%"},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}

	query, args, err := opts.apply(dao.Builder.
		Select("*").
		From("patients").
		Where(where).
		OrderBy("ln DESC")).
		ToSql()
	if err != nil {
		return []model.Patient{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	patients := make([]model.Patient, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &patients, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Patient{}, err
	}

	logger.Debug("success query execute", "countPatients", len(patients))

	return patients, nil
}

func (dao *PatientDAO) GetByLN(ctx context.Context, ln string) (model.Patient, error) {
	logger := dao.Logger.With("query", "getByLN")

	query, args, err := dao.Builder.
		Select("*").
		From("patients").
		Where(squirrel.Eq{"ln": ln, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Patient{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var patient model.Patient
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&patient); err != nil {
		if IsNoRows(err) {
			return model.Patient{}, model.NewError("patient", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Patient{}, err
	}

	return patient, nil
}

type InsertPatientDTO struct {
	LN        string
	IDCard    *string
	Title     string
	FirstName string
	LastName  string
	Gender    string
	BirthDate *time.Time
	Phone     string
	Address   string
}

// Insert reports a taken LN as model.ErrExists and a taken ID card as
// model.ErrDuplicate.
func (dao *PatientDAO) Insert(ctx context.Context, dto InsertPatientDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("patients").
		Columns("ln", "id_card", "title", "first_name", "last_name", "gender", "birth_date", "phone", "address").
		Values(dto.LN, dto.IDCard, dto.Title, dto.FirstName, dto.LastName, dto.Gender, dto.BirthDate, dto.Phone, dto.Address).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "ln", dto.LN)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		switch {
		case IsUniqueViolationOn(err, _patientLNConstraint):
			logger.Info("ln already taken", "ln", dto.LN)
			return 0, model.NewError("patient ln", model.ErrExists)
		case IsUniqueViolationOn(err, _patientIDCardConstraint):
			return 0, model.NewError("patient id card", model.ErrDuplicate)
		}

		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

// SoftDelete hides the patient but keeps the row, so the LN is never handed out again.
func (dao *PatientDAO) SoftDelete(ctx context.Context, ln string) error {
	logger := dao.Logger.With("query", "softDelete")

	now := time.Now()
	query, args, err := dao.Builder.
		Update("patients").
		SetMap(map[string]any{
			"deleted_at": now,
			"updated_at": now,
		}).
		Where(squirrel.Eq{"ln": ln, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewError("patient", model.ErrNotFound)
	}

	logger.Debug("success query execute", "deleteLN", ln)

	return nil
}
