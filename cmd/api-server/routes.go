package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jamesatitpong11/labflow-sub001/docs"
	"github.com/jamesatitpong11/labflow-sub001/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (app *application) confiureSwagger() {
	docs.SwaggerInfo.Title = "Labflow"
	docs.SwaggerInfo.Description = "Web API - Clinic laboratory registration"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmtHTTPAddr("localhost", app.config.httpPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
}

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(metrics.Middleware)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/v1/status", app.handleStatus)
	mux.With(app.rateLimitLogin).Post("/api/v1/auth/login", app.handleLogin)

	mux.Group(func(mux chi.Router) {
		mux.Use(app.authenticate)

		mux.Post("/api/v1/auth/logout", app.handleLogout)
		mux.Get("/api/v1/auth/me", app.handleMe)

		mux.Get("/api/v1/users", app.handleListUsers)
		mux.Post("/api/v1/users", app.requireRole(_roleAdmin, app.handleAddUser))
		mux.Patch("/api/v1/users/{username}", app.requireRole(_roleAdmin, app.handleUpdateUser))
		mux.Delete("/api/v1/users/{username}", app.requireRole(_roleAdmin, app.handleDeleteUser))

		mux.Get("/api/v1/patients/next-ln", app.handleNextLN)
		mux.Post("/api/v1/patients", app.handleAddPatient)
		mux.Get("/api/v1/patients", app.handleListPatients)
		mux.Get("/api/v1/patients/{ln}", app.handleGetPatient)
		mux.Delete("/api/v1/patients/{ln}", app.handleDeletePatient)

		mux.Get("/api/v1/visits/next-number", app.handleNextVisitNumber)
		mux.Post("/api/v1/visits", app.handleAddVisit)
		mux.Get("/api/v1/visits", app.handleListVisits)
		mux.Get("/api/v1/visits/{visitNumber}", app.handleGetVisit)
	})

	mux.Handle("/metrics", metrics.Handler())

	mux.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(
			"http://"+fmtHTTPAddr("localhost", app.config.httpPort)+"/swagger/doc.json",
		), // The url pointing to API definition
	))

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
