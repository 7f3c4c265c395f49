package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

type FindUserFilter struct {
	Role *string
}

func (dao *UserDAO) Find(ctx context.Context, filter FindUserFilter, opts FindOptions) ([]model.User, error) {
	logger := dao.Logger.With("query", "find")

	equals := squirrel.Eq{}
	if filter.Role != nil {
		equals["role"] = *filter.Role
	}

	query, args, err := opts.apply(dao.Builder.
		Select("*").
		From("users").
		Where(equals).
		OrderBy("created_at ASC")).
		ToSql()
	if err != nil {
		return []model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	users := make([]model.User, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &users, query, args...); err != nil {
		if IsNoRows(err) {
			logger.Debug("success query execute", "countUsers", 0)
			return []model.User{}, nil
		}

		logger.Warn("failed query execute", "error", err)

		return []model.User{}, err
	}

	logger.Debug("success query execute", "countUsers", len(users))

	return users, nil
}

func (dao *UserDAO) GetByUsername(ctx context.Context, username string) (model.User, error) {
	logger := dao.Logger.With("query", "getByUsername")

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, err
	}

	logger.Debug("success query execute", "userId", user.ID)

	return user, nil
}

type InsertUserDTO struct {
	Username     string
	PasswordHash string
	Name         string
	Role         string
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns("username", "password_hash", "name", "role").
		Values(dto.Username, dto.PasswordHash, dto.Name, dto.Role).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	// args carry the password hash
	logger.Debug("build query", "sql", query)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("user", model.ErrExists)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

type UpdateUserDTO struct {
	PasswordHash *string
	Name         *string
	Role         *string
}

func (dao *UserDAO) Update(ctx context.Context, username string, dto UpdateUserDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 4)
	data["updated_at"] = time.Now()
	if dto.PasswordHash != nil {
		data["password_hash"] = *dto.PasswordHash
	}
	if dto.Name != nil {
		data["name"] = *dto.Name
	}
	if dto.Role != nil {
		data["role"] = *dto.Role
	}

	query, args, err := dao.Builder.
		Update("users").
		SetMap(data).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewError("user", model.ErrNotFound)
	}

	logger.Debug("success query execute", "username", username, "countUpdatedFields", len(data))

	return nil
}

// Delete removes the user only. Their sessions stay behind and are rejected
// with model.ErrUserNotFound on the next validation.
func (dao *UserDAO) Delete(ctx context.Context, username string) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("users").
		Where(squirrel.Eq{"username": username}).
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
		return model.NewError("user", model.ErrNotFound)
	}

	logger.Debug("success query execute", "deleteUsername", username)

	return nil
}
