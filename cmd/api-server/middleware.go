package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jamesatitpong11/labflow-sub001/internal/ctxstore"
	"github.com/jamesatitpong11/labflow-sub001/internal/database"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/response"
	"github.com/rs/cors"

	"github.com/tomasen/realip"
)

const (
	_traceIDKey = ctxstore.Key("traceId")
	_userKey    = ctxstore.Key("user")
)

const (
	_headerSessionID = "X-Session-Id"
	_headerUsername  = "X-Username"
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.FromOr(r.Context(), _traceIDKey, "")
		)

		userAttrs := slog.Group("user", "ip", ip, "username", r.Header.Get(_headerUsername))
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

// authenticate resolves the x-session-id / x-username pair into the current user.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.storeContext(r)
		defer cancel()

		user, err := app.sessions.Validate(ctx, r.Header.Get(_headerSessionID), r.Header.Get(_headerUsername))
		if err != nil {
			app.authError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxstore.With(r.Context(), _userKey, user)))
	})
}

func (app *application) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxstore.MustFrom[model.User](r.Context(), _userKey)
		if user.Role != role {
			app.errorMessage(w, r, http.StatusForbidden, "You do not have permission to perform this action", nil)
			return
		}

		next(w, r)
	}
}

func (app *application) rateLimitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.loginLimiter.Allow(realip.FromRequest(r)) {
			headers := make(http.Header)
			headers.Set("Retry-After", "1")
			app.errorMessage(w, r, http.StatusTooManyRequests, "Too many login attempts, please wait and try again", headers)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// storeContext bounds the store calls of a request.
func (app *application) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return database.WithTimeout(r.Context(), app.config.db.timeout)
}

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	return app.logger.With(
		_traceIDKey.String(), ctxstore.FromOr(r.Context(), _traceIDKey, ""),
	)
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
