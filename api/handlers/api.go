// Package handlers wires the HTTP routes to the databases and the AI
// pipeline.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/ai"
	"github.com/medibridge/medibridge-api/api"
	"github.com/medibridge/medibridge-api/api/scheduler"
	"github.com/medibridge/medibridge-api/config"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/extraction"
	"github.com/medibridge/medibridge-api/models"
)

// App stores the router, db connection and background jobs, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Pipeline *scheduler.Pipeline
	Backfill *scheduler.Backfill

	dbHelper   databases.DatabaseHelper
	summarizer Summarizer
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)
	r.Use(api.TimeoutMiddleware(30 * time.Second))

	reportDB := databases.NewReportDatabase(a.dbHelper)
	patientDB := databases.NewPatientDatabase(a.dbHelper)

	report := Report{
		RDB:      reportDB,
		PDB:      patientDB,
		Pipeline: a.Pipeline,
	}
	patient := Patient{
		PDB:         patientDB,
		Pipeline:    a.Pipeline,
		Summarizer:  a.summarizer,
		TokenSecret: a.Config.QRTokenSecret,
	}
	hospital := Hospital{HDB: databases.NewHospitalDatabase(a.dbHelper)}
	user := User{UDB: databases.NewUserDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// emergency profile is public, resolved purely from the QR token
	r.HandleFunc("/emergency/{qr_token}", patient.EmergencyProfileHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user", api.Middleware(api.RequireRole(user.RegisterUserHandler, models.RoleSuperAdmin))).Methods("POST")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.ReportByIDHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.UpdateReportHandler))).Methods("PUT")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.DeleteReportHandler))).Methods("DELETE")
	apiCreate.Handle("/reports/patient/{patient_id}", api.Middleware(http.HandlerFunc(report.ReportsByPatientIDHandler))).Methods("GET")
	apiCreate.Handle("/reports/validate-upload", api.Middleware(http.HandlerFunc(report.ValidateUploadHandler))).Methods("POST")
	apiCreate.Handle("/reports/overall-analysis", api.Middleware(http.HandlerFunc(report.OverallAnalysisHandler))).Methods("POST")

	apiCreate.Handle("/hospital", api.Middleware(api.RequireRole(hospital.CreateHospitalHandler, models.RoleSuperAdmin))).Methods("POST")
	apiCreate.Handle("/hospital/{hospital_id}", api.Middleware(http.HandlerFunc(hospital.HospitalByIDHandler))).Methods("GET")

	apiCreate.Handle("/patient/{patient_id}/qr-token", api.Middleware(http.HandlerFunc(patient.CreateQRTokenHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/emergency-summary", api.Middleware(http.HandlerFunc(patient.RegenerateSummaryHandler))).Methods("POST")

	apiCreate.Handle("/generate-upload-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	apiCreate.Handle("/metrics/summary", api.Middleware(api.RequireRole(api.MetricsSummaryHandler, models.RoleSuperAdmin))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database, build the AI
// pipeline and create the router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("medibridge-api has connected to the database")

	a.initializePipeline()
	a.initializeRoutes()
	return nil
}

// initializePipeline builds the LLM clients and the background jobs on top
// of them
func (a *App) initializePipeline() {
	gemini := ai.NewGeminiClient(a.Config.GeminiAPIKey)
	openai := ai.NewOpenAIClient(a.Config.OpenAIAPIKey)

	extractor := extraction.NewExtractor(gemini)
	classifier := ai.NewClassifier(gemini)
	aggregator := ai.NewAggregator(gemini)
	summarizer := ai.NewEmergencySummarizer(openai)

	reportDB := databases.NewReportDatabase(a.dbHelper)
	patientDB := databases.NewPatientDatabase(a.dbHelper)

	a.summarizer = summarizer
	a.Pipeline = scheduler.NewPipeline(reportDB, patientDB, extractor, classifier, aggregator, a.Config.UploadsDir)
	a.Backfill = scheduler.NewBackfill(patientDB, summarizer)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
