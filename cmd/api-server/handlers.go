package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jamesatitpong11/labflow-sub001/internal/ctxstore"
	"github.com/jamesatitpong11/labflow-sub001/internal/database"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/password"
	"github.com/jamesatitpong11/labflow-sub001/internal/request"
	"github.com/jamesatitpong11/labflow-sub001/internal/response"
	"github.com/jamesatitpong11/labflow-sub001/internal/validator"
)

// Handle Status
// @Summary Server Status
// @Description Check if the server is up and running
// @Tags api
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status [get]
func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Login
// @Summary Login
// @Description Open a session. Any previous session of the user is closed.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body main.requestLogin true "Credentials"
// @Success 200 {object} main.responseLogin
// @Failure 401 {object} any "Incorrect username or password"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 429 {object} any "Too many attempts"
// @Router /auth/login [post]
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input requestLogin
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Username), "username", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Password), "password", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	ctx, cancel := app.storeContext(r)
	defer cancel()

	sess, user, err := app.sessions.Login(ctx, input.Username, input.Password, r.UserAgent())
	if err != nil {
		app.authError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseLogin{
		SessionID: sess.SessionID,
		Username:  sess.Username,
		LoginTime: sess.LoginTime,
		ExpiresIn: int(app.sessions.TTL().Seconds()),
		User:      user,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type responseLogin struct {
	SessionID string     `json:"sessionId"`
	Username  string     `json:"username"`
	LoginTime time.Time  `json:"loginTime"`
	ExpiresIn int        `json:"expiresIn"`
	User      model.User `json:"user"`
}

// Handle Logout
// @Summary Logout
// @Description Close every session of the current user
// @Tags auth
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Success 204
// @Failure 401 {object} any "Not authenticated"
// @Router /auth/logout [post]
func (app *application) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := ctxstore.MustFrom[model.User](r.Context(), _userKey)

	ctx, cancel := app.storeContext(r)
	defer cancel()

	if err := app.sessions.Logout(ctx, user.Username); err != nil {
		app.authError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Handle Me
// @Summary Current User
// @Tags auth
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Success 200 {object} main.responseUser
// @Failure 401 {object} any "Not authenticated"
// @Router /auth/me [get]
func (app *application) handleMe(w http.ResponseWriter, r *http.Request) {
	user := ctxstore.MustFrom[model.User](r.Context(), _userKey)

	if err := response.JSON(w, http.StatusOK, responseUser{User: user}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseUser struct {
	User model.User `json:"user"`
}

// Handle List Users
// @Summary List Users
// @Tags users
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param role query string false "Role"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} main.responseListUsers
// @Router /users [get]
func (app *application) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	users, err := dao.Find(ctx, database.FindUserFilter{
		Role: optionalStringQueryParams(r, "role"),
	}, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseListUsers{Users: users}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseListUsers struct {
	Users []model.User `json:"users"`
}

// Handle Add User
// @Summary Add User
// @Description Add a staff account. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param input body main.requestAddUser true "New account"
// @Success 201 {object} main.responseUser
// @Failure 400 {object} any "Bad request input"
// @Failure 403 {object} any "Not an admin"
// @Failure 409 {object} any "User already exists"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Router /users [post]
func (app *application) handleAddUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()
	logger := app.requestLogger(r)

	var input requestAddUser
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestAddUser(&v, input)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if input.Role == "" {
		input.Role = _roleStaff
	}

	hash, err := password.Hash(input.Password, app.config.auth.bcryptCost)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	if _, err := dao.Insert(ctx, database.InsertUserDTO{
		Username:     input.Username,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         input.Role,
	}); err != nil {
		if errors.Is(err, model.ErrExists) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	user, err := dao.GetByUsername(ctx, input.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, responseUser{User: user}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Handle Update User
// @Summary Update User
// @Description Change a user's name, role or password. A role or password change ends their session. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param username path string true "Username"
// @Param input body main.requestUpdateUser true "Changed fields"
// @Success 200 {object} main.responseUser
// @Failure 400 {object} any "Bad request input"
// @Failure 403 {object} any "Not an admin"
// @Failure 404 {object} any "User not found"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Router /users/{username} [patch]
func (app *application) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	username := chi.URLParam(r, "username")

	var input requestUpdateUser
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdateUser(&v, input)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dto := database.UpdateUserDTO{Name: input.Name, Role: input.Role}
	if input.Password != nil {
		hash, err := password.Hash(*input.Password, app.config.auth.bcryptCost)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		dto.PasswordHash = &hash
	}

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	if err := dao.Update(ctx, username, dto); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	// Sessions cache the old role.
	if input.Role != nil || input.Password != nil {
		if err := app.sessions.Logout(ctx, username); err != nil {
			app.authError(w, r, err)
			return
		}
	} else {
		app.sessions.Forget(username)
	}

	user, err := dao.GetByUsername(ctx, username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseUser{User: user}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateUser struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// Handle Delete User
// @Summary Delete User
// @Description Delete an account. Its open session is rejected on next use. Admin only.
// @Tags users
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param username path string true "Username"
// @Success 204
// @Failure 403 {object} any "Not an admin"
// @Failure 404 {object} any "User not found"
// @Router /users/{username} [delete]
func (app *application) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	if err := dao.Delete(ctx, username); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	app.sessions.Forget(username)

	w.WriteHeader(http.StatusNoContent)
}
