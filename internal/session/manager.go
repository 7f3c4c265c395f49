// Package session authenticates (sessionId, username) pairs on every request.
//
// Sessions live in the database; at most one exists per username. Each
// Manager keeps an LRU of recently validated sessions in front of it.
// Inactive sessions expire after the configured TTL: they are rejected on
// read and removed by Sweep.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jamesatitpong11/labflow-sub001/internal/metrics"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/password"
)

const (
	DefaultTTL       = 30 * time.Minute
	DefaultCacheSize = 1024
)

type SessionStore interface {
	// Replace stores s as the only session of s.Username in one atomic step,
	// overwriting any session the user already had.
	Replace(ctx context.Context, s model.Session) error
	Get(ctx context.Context, username, sessionID string) (model.Session, error)
	// Touch sets last_activity and reports whether the session still exists
	// and its owner is still a user.
	Touch(ctx context.Context, username, sessionID string, at time.Time) (bool, error)
	Delete(ctx context.Context, username, sessionID string) error
	DeleteByUsername(ctx context.Context, username string) (int64, error)
	DeleteInactive(ctx context.Context, before time.Time) (int64, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type Options struct {
	TTL time.Duration
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// HashCost is the bcrypt cost of the hash compared for unknown
	// usernames. Defaults to password.DefaultCost.
	HashCost int
}

type Manager struct {
	logger   *slog.Logger
	sessions SessionStore
	users    UserStore
	cache    *Cache
	ttl      time.Duration
	now      func() time.Time
	matches  func(plaintext, hash string) (bool, error)

	hashCost  int
	dummyOnce sync.Once
	dummyHash string
}

func NewManager(logger *slog.Logger, sessions SessionStore, users UserStore, cache *Cache, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HashCost <= 0 {
		opts.HashCost = password.DefaultCost
	}

	return &Manager{
		logger:   logger.With("module", "session"),
		sessions: sessions,
		users:    users,
		cache:    cache,
		ttl:      opts.TTL,
		now:      opts.Now,
		matches:  password.Matches,
		hashCost: opts.HashCost,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login verifies credentials and replaces every existing session of the user
// with a new one.
func (m *Manager) Login(ctx context.Context, username, plaintext, userAgent string) (model.Session, model.User, error) {
	logger := m.logger.With("username", username)

	user, err := m.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Spend the same bcrypt work as a wrong password.
			_, _ = m.matches(plaintext, m.unknownUserHash())
			metrics.RecordLogin(false)
			return model.Session{}, model.User{}, model.ErrInvalidCredentials
		}
		return model.Session{}, model.User{}, storeError("get user", err)
	}

	ok, err := m.matches(plaintext, user.PasswordHash)
	if err != nil {
		logger.Warn("stored password hash is unusable", "error", err)
	}
	if !ok {
		metrics.RecordLogin(false)
		return model.Session{}, model.User{}, model.ErrInvalidCredentials
	}

	now := m.now()
	sess := model.Session{
		Username:     username,
		SessionID:    uuid.NewString(),
		LoginTime:    now,
		LastActivity: now,
		UserAgent:    userAgent,
	}

	if err := m.sessions.Replace(ctx, sess); err != nil {
		return model.Session{}, model.User{}, storeError("replace session", err)
	}

	m.cache.Put(username, Entry{SessionID: sess.SessionID, User: user, LastActivity: now})

	logger.Info("user logged in")
	metrics.RecordLogin(true)

	return sess, user, nil
}

// Validate resolves the user owning (sessionID, username) and records activity.
func (m *Manager) Validate(ctx context.Context, sessionID, username string) (model.User, error) {
	if sessionID == "" || username == "" {
		metrics.RecordSessionValidation("invalid")
		return model.User{}, model.ErrInvalidSession
	}

	now := m.now()

	if entry, ok := m.cache.Get(username); ok && entry.SessionID == sessionID {
		if m.expired(entry.LastActivity, now) {
			m.cache.Evict(username)
		} else {
			touched, err := m.sessions.Touch(ctx, username, sessionID, now)
			if err != nil {
				metrics.RecordSessionValidation("error")
				return model.User{}, storeError("touch session", err)
			}
			if touched {
				entry.LastActivity = now
				m.cache.Put(username, entry)
				metrics.RecordSessionValidation("cache_hit")
				return entry.User, nil
			}

			// Removed behind our back: by another process or the sweeper.
			m.cache.Evict(username)
		}
	}

	user, err := m.validateFromStore(ctx, sessionID, username, now)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSessionExpired):
			metrics.RecordSessionValidation("expired")
		case errors.Is(err, model.ErrUserNotFound):
			metrics.RecordSessionValidation("user_not_found")
		default:
			metrics.RecordSessionValidation("error")
		}
		return model.User{}, err
	}

	metrics.RecordSessionValidation("store_hit")
	return user, nil
}

func (m *Manager) validateFromStore(ctx context.Context, sessionID, username string, now time.Time) (model.User, error) {
	sess, err := m.sessions.Get(ctx, username, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrSessionExpired
		}
		return model.User{}, storeError("get session", err)
	}

	if m.expired(sess.LastActivity, now) {
		if err := m.sessions.Delete(ctx, username, sessionID); err != nil {
			m.logger.Warn("failed to delete expired session", "username", username, "error", err)
		}
		return model.User{}, model.ErrSessionExpired
	}

	user, err := m.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return model.User{}, storeError("get user", err)
		}

		m.logger.Warn("session owner no longer exists", "username", username)
		if err := m.sessions.Delete(ctx, username, sessionID); err != nil {
			return model.User{}, storeError("delete dangling session", err)
		}
		m.cache.Evict(username)
		return model.User{}, model.ErrUserNotFound
	}

	touched, err := m.sessions.Touch(ctx, username, sessionID, now)
	if err != nil {
		return model.User{}, storeError("touch session", err)
	}
	if !touched {
		return model.User{}, model.ErrSessionExpired
	}

	m.cache.Put(username, Entry{SessionID: sessionID, User: user, LastActivity: now})

	return user, nil
}

// Logout removes every session of username. It is not an error when there is none.
func (m *Manager) Logout(ctx context.Context, username string) error {
	removed, err := m.sessions.DeleteByUsername(ctx, username)
	m.cache.Evict(username)
	if err != nil {
		return storeError("delete sessions", err)
	}

	m.logger.Info("user logged out", "username", username, "removedSessions", removed)
	return nil
}

// Forget drops the cached entry of username so the next request is checked
// against the database.
func (m *Manager) Forget(username string) {
	m.cache.Evict(username)
}

// Sweep deletes sessions idle for longer than the TTL.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	n, err := m.sessions.DeleteInactive(ctx, m.now().Add(-m.ttl))
	if err != nil {
		return 0, storeError("sweep sessions", err)
	}

	metrics.RecordSessionsSwept(n)
	return n, nil
}

// Run sweeps every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.Sweep(ctx)
			if err != nil {
				if ctx.Err() == nil {
					m.logger.Error("session sweep failed", "error", err)
				}
				continue
			}
			if n > 0 {
				m.logger.Info("inactive sessions swept", "count", n)
			}
		}
	}
}

func (m *Manager) unknownUserHash() string {
	m.dummyOnce.Do(func() {
		hash, err := password.Hash(uuid.NewString(), m.hashCost)
		if err != nil {
			m.logger.Error("failed to build unknown user hash", "error", err)
			return
		}
		m.dummyHash = hash
	})
	return m.dummyHash
}

func (m *Manager) expired(lastActivity, now time.Time) bool {
	return now.Sub(lastActivity) > m.ttl
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrSessionError, op, err)
}
