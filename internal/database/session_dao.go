package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

type SessionDAO struct {
	Logger *slog.Logger
	*DB
}

func NewSessionDAO(logger *slog.Logger, db *DB) *SessionDAO {
	return &SessionDAO{
		Logger: logger.With("dao", "session"),
		DB:     db,
	}
}

func (dao *SessionDAO) Get(ctx context.Context, username, sessionID string) (model.Session, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("sessions").
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return model.Session{}, err
	}

	dao.Logger.Debug("query", "sql", query)

	var session model.Session
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.Session{}, model.NewError("session", model.ErrNotFound)
		}

		return model.Session{}, err
	}

	return session, nil
}

// Replace upserts on the username key, so two concurrent logins leave
// exactly one row behind.
func (dao *SessionDAO) Replace(ctx context.Context, s model.Session) error {
	query, args, err := dao.Builder.
		Insert("sessions").
		Columns("username", "session_id", "login_time", "last_activity", "user_agent").
		Values(s.Username, s.SessionID, s.LoginTime, s.LastActivity, s.UserAgent).
		Suffix("ON CONFLICT (username) DO UPDATE SET " +
			"session_id = EXCLUDED.session_id, login_time = EXCLUDED.login_time, " +
			"last_activity = EXCLUDED.last_activity, user_agent = EXCLUDED.user_agent").
		ToSql()
	if err != nil {
		return err
	}

	dao.Logger.Debug("query", "sql", query)

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		dao.Logger.Warn("failed query execute", "query", "replace", "error", err)
		return err
	}

	return nil
}

func (dao *SessionDAO) Touch(ctx context.Context, username, sessionID string, at time.Time) (bool, error) {
	query, args, err := dao.Builder.
		Update("sessions").
		Set("last_activity", at).
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.Eq{"session_id": sessionID}).
		Where("EXISTS (SELECT 1 FROM users WHERE users.username = sessions.username)").
		ToSql()
	if err != nil {
		return false, err
	}

	dao.Logger.Debug("query", "sql", query)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (dao *SessionDAO) Delete(ctx context.Context, username, sessionID string) error {
	query, args, err := dao.Builder.
		Delete("sessions").
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return err
	}

	dao.Logger.Debug("query", "sql", query)

	_, err = dao.ExecContext(ctx, query, args...)
	return err
}

func (dao *SessionDAO) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	query, args, err := dao.Builder.
		Delete("sessions").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (dao *SessionDAO) DeleteInactive(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := dao.Builder.
		Delete("sessions").
		Where(squirrel.Lt{"last_activity": before}).
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
