package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jamesatitpong11/labflow-sub001/internal/ctxstore"
	"github.com/jamesatitpong11/labflow-sub001/internal/database"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/request"
	"github.com/jamesatitpong11/labflow-sub001/internal/response"
	"github.com/jamesatitpong11/labflow-sub001/internal/validator"
)

// Handle Next Visit Number
// @Summary Preview Next Visit Number
// @Description Propose the next visit number for a date. Nothing is reserved.
// @Tags visits
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param date query string false "Date (YYYY-MM-DD), default today"
// @Success 200 {object} main.responseNextID
// @Failure 400 {object} any "Bad date"
// @Failure 503 {object} any "Identifier exhausted"
// @Router /visits/next-number [get]
func (app *application) handleNextVisitNumber(w http.ResponseWriter, r *http.Request) {
	at, ok, err := dateQueryParam(r, "date", app.config.ids.location)
	if err != nil {
		app.badRequest(w, r, errors.New("date must be in YYYY-MM-DD format"))
		return
	}
	if !ok {
		at = app.now()
	}

	ctx, cancel := app.storeContext(r)
	defer cancel()

	number, err := app.visitIDs.Next(ctx, at)
	if err != nil {
		app.identifierError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseNextID{ID: number, Scheme: app.visitIDs.Scheme().String()}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Add Visit
// @Summary Open Visit
// @Description Open a visit for a patient. The number is bucketed by the visit date.
// @Tags visits
// @Accept json
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param input body main.requestAddVisit true "Visit"
// @Success 201 {object} main.responseVisit
// @Failure 400 {object} any "Bad request input"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 503 {object} any "Identifier exhausted"
// @Router /visits [post]
func (app *application) handleAddVisit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()
	logger := app.requestLogger(r)
	user := ctxstore.MustFrom[model.User](ctx, _userKey)

	var input requestAddVisit
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestAddVisit(&v, input)

	visitDate, err := parseOptionalDate(input.VisitDate, app.config.ids.location)
	if err != nil {
		v.AddFieldError("visitDate", "must be a date in YYYY-MM-DD format")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if _, err := database.NewPatientDAO(logger, app.db).GetByLN(ctx, input.PatientLN); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			v.AddFieldError("patientLn", "no such patient")
			app.failedValidation(w, r, v)
			return
		}

		app.serverError(w, r, err)
		return
	}

	at := app.now()
	if visitDate != nil {
		at = *visitDate
	}

	dao := database.NewVisitDAO(logger, app.db)

	number, err := app.visitIDs.Allocate(ctx, at, func(ctx context.Context, number string) error {
		_, err := dao.Insert(ctx, database.InsertVisitDTO{
			VisitNumber: number,
			PatientLN:   input.PatientLN,
			VisitDate:   at,
			Department:  input.Department,
			Symptoms:    input.Symptoms,
			Note:        input.Note,
			CreatedBy:   user.Username,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			v.AddFieldError("patientLn", "no such patient")
			app.failedValidation(w, r, v)
			return
		}

		app.identifierError(w, r, err)
		return
	}

	visit, err := dao.GetByNumber(ctx, number)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	logger.Info("visit opened", "visitNumber", number, "ln", input.PatientLN)

	if err := response.JSON(w, http.StatusCreated, responseVisit{Visit: visit}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddVisit struct {
	PatientLN  string  `json:"patientLn"`
	VisitDate  *string `json:"visitDate"`
	Department string  `json:"department"`
	Symptoms   string  `json:"symptoms"`
	Note       string  `json:"note"`
}

type responseVisit struct {
	Visit model.Visit `json:"visit"`
}

// Handle List Visits
// @Summary List Visits
// @Tags visits
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param ln query string false "Patient lab number"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} main.responseListVisits
// @Router /visits [get]
func (app *application) handleListVisits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewVisitDAO(app.requestLogger(r), app.db)

	visits, err := dao.Find(ctx, database.FindVisitFilter{
		PatientLN: optionalStringQueryParams(r, "ln"),
	}, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseListVisits{Visits: visits}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseListVisits struct {
	Visits []model.Visit `json:"visits"`
}

// Handle Get Visit
// @Summary Get Visit
// @Tags visits
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param visitNumber path string true "Visit number"
// @Success 200 {object} main.responseVisit
// @Failure 404 {object} any "Visit not found"
// @Router /visits/{visitNumber} [get]
func (app *application) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewVisitDAO(app.requestLogger(r), app.db)

	visit, err := dao.GetByNumber(ctx, chi.URLParam(r, "visitNumber"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.notFound(w, r)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseVisit{Visit: visit}); err != nil {
		app.serverError(w, r, err)
	}
}
