package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jamesatitpong11/labflow-sub001/internal/database"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/request"
	"github.com/jamesatitpong11/labflow-sub001/internal/response"
	"github.com/jamesatitpong11/labflow-sub001/internal/validator"
)

// Handle Next LN
// @Summary Preview Next LN
// @Description Propose the next lab number for a date. Nothing is reserved.
// @Tags patients
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param date query string false "Date (YYYY-MM-DD), default today"
// @Success 200 {object} main.responseNextID
// @Failure 400 {object} any "Bad date"
// @Failure 503 {object} any "Identifier exhausted"
// @Router /patients/next-ln [get]
func (app *application) handleNextLN(w http.ResponseWriter, r *http.Request) {
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

	ln, err := app.patientIDs.Next(ctx, at)
	if err != nil {
		app.identifierError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseNextID{ID: ln, Scheme: app.patientIDs.Scheme().String()}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseNextID struct {
	ID     string `json:"id"`
	Scheme string `json:"scheme"`
}

// Handle Add Patient
// @Summary Register Patient
// @Description Register a patient under a freshly allocated LN
// @Tags patients
// @Accept json
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param input body main.requestAddPatient true "Patient"
// @Success 201 {object} main.responsePatient
// @Failure 400 {object} any "Bad request input"
// @Failure 409 {object} any "ID card already registered"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 503 {object} any "Identifier exhausted"
// @Router /patients [post]
func (app *application) handleAddPatient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()
	logger := app.requestLogger(r)

	var input requestAddPatient
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestAddPatient(&v, input)

	birthDate, err := parseOptionalDate(input.BirthDate, app.config.ids.location)
	if err != nil {
		v.AddFieldError("birthDate", "must be a date in YYYY-MM-DD format")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	idCard := input.IDCard
	if idCard != nil && strings.TrimSpace(*idCard) == "" {
		idCard = nil
	}

	dao := database.NewPatientDAO(logger, app.db)

	ln, err := app.patientIDs.Allocate(ctx, app.now(), func(ctx context.Context, ln string) error {
		_, err := dao.Insert(ctx, database.InsertPatientDTO{
			LN:        ln,
			IDCard:    idCard,
			Title:     input.Title,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
			Gender:    input.Gender,
			BirthDate: birthDate,
			Phone:     input.Phone,
			Address:   input.Address,
		})
		return err
	})
	if err != nil {
		app.identifierError(w, r, err)
		return
	}

	patient, err := dao.GetByLN(ctx, ln)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	logger.Info("patient registered", "ln", ln)

	if err := response.JSON(w, http.StatusCreated, responsePatient{Patient: patient}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddPatient struct {
	IDCard    *string `json:"idCard"`
	Title     string  `json:"title"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"`
	BirthDate *string `json:"birthDate"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
}

type responsePatient struct {
	Patient model.Patient `json:"patient"`
}

// Handle List Patients
// @Summary List Patients
// @Tags patients
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param q query string false "LN, ID card or name"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} main.responseListPatients
// @Router /patients [get]
func (app *application) handleListPatients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewPatientDAO(app.requestLogger(r), app.db)

	patients, err := dao.Find(ctx, database.FindPatientFilter{
		Query: optionalStringQueryParams(r, "q"),
	}, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseListPatients{Patients: patients}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseListPatients struct {
	Patients []model.Patient `json:"patients"`
}

// Handle Get Patient
// @Summary Get Patient
// @Tags patients
// @Produce json
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param ln path string true "Lab number"
// @Success 200 {object} main.responsePatient
// @Failure 404 {object} any "Patient not found"
// @Router /patients/{ln} [get]
func (app *application) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewPatientDAO(app.requestLogger(r), app.db)

	patient, err := dao.GetByLN(ctx, chi.URLParam(r, "ln"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.notFound(w, r)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responsePatient{Patient: patient}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Delete Patient
// @Summary Delete Patient
// @Description Hide a patient. The LN stays reserved.
// @Tags patients
// @Param x-session-id header string true "Session ID"
// @Param x-username header string true "Username"
// @Param ln path string true "Lab number"
// @Success 204
// @Failure 404 {object} any "Patient not found"
// @Router /patients/{ln} [delete]
func (app *application) handleDeletePatient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	dao := database.NewPatientDAO(app.requestLogger(r), app.db)

	if err := dao.SoftDelete(ctx, chi.URLParam(r, "ln")); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.notFound(w, r)
			return
		}

		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
