package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/response"
	"github.com/jamesatitpong11/labflow-sub001/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		trace   = string(debug.Stack())
	)

	requestAttrs := slog.Group("request", "method", method, "url", url)
	app.requestLogger(r).Error(message, requestAttrs, "trace", trace)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	message = strings.ToUpper(message[:1]) + message[1:]

	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// errorCode is errorMessage with a machine-readable code for clients that
// branch on the failure kind.
func (app *application) errorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	err := response.JSON(w, status, response.JSONObject{"error": message, "code": code})
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

// authError maps the session failure taxonomy to distinct responses.
func (app *application) authError(w http.ResponseWriter, r *http.Request, err error) {
	if !model.IsAuthError(err) {
		app.serverError(w, r, err)
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidSession):
		app.errorCode(w, r, http.StatusUnauthorized, "invalid_session", "Session headers are missing, please log in")
	case errors.Is(err, model.ErrSessionExpired):
		app.errorCode(w, r, http.StatusUnauthorized, "session_expired", "Your session has expired or was opened elsewhere, please log in again")
	case errors.Is(err, model.ErrUserNotFound):
		app.errorCode(w, r, http.StatusUnauthorized, "user_not_found", "The account for this session no longer exists")
	case errors.Is(err, model.ErrInvalidCredentials):
		app.errorCode(w, r, http.StatusUnauthorized, "invalid_credentials", "Incorrect username or password")
	default:
		app.reportServerError(r, err)
		app.errorCode(w, r, http.StatusInternalServerError, "session_error", "Your session could not be verified, please try again")
	}
}

// identifierError handles failures from an identifier allocation.
func (app *application) identifierError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrIdentifierExhausted):
		app.reportServerError(r, err)
		app.errorCode(w, r, http.StatusServiceUnavailable, "identifier_exhausted", "Could not allocate a new number, please try again")
	case errors.Is(err, model.ErrExists), errors.Is(err, model.ErrDuplicate):
		app.errorCode(w, r, http.StatusConflict, "conflict", err.Error())
	default:
		app.serverError(w, r, err)
	}
}
