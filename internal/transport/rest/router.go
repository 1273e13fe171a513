package rest

import (
	"net/http"
	"os"

	"equisecure/internal/service"
	"equisecure/internal/transport/rest/handler"
	"equisecure/internal/transport/rest/middleware"
	"equisecure/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService          *service.AuthService
	UserService          *service.UserService
	FacilityService      *service.FacilityService
	QuestionnaireService *service.QuestionnaireService
	EvaluationService    *service.EvaluationService
	PlanService          *service.PlanService
	ExportService        *service.ExportService
	WSHub                *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.UserService)
	facilityHandler := handler.NewFacilityHandler(c.FacilityService)
	questionnaireHandler := handler.NewQuestionnaireHandler(c.QuestionnaireService)
	evaluationHandler := handler.NewEvaluationHandler(c.EvaluationService)
	planHandler := handler.NewPlanHandler(c.PlanService)
	adminHandler := handler.NewAdminHandler(c.UserService, c.ExportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Generator callback (shared-key auth, not JWT)
	v1.HandleFunc("/plans/{evaluationId}/content", planHandler.ReceiveContent).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/admin/plans", wsHandler.AdminPlansWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/auth/consent", authHandler.Consent).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/profile", authHandler.Profile).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/facilities", facilityHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/facilities", facilityHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/facilities/{facilityId}", facilityHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/facilities/{facilityId}", facilityHandler.Update).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/facilities/{facilityId}", facilityHandler.Delete).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/facilities/{facilityId}/answers/latest", evaluationHandler.LatestAnswers).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/questionnaires/active", questionnaireHandler.GetActive).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/evaluations", evaluationHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/evaluations/{evaluationId}/report", evaluationHandler.GetReport).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/dashboard", evaluationHandler.Dashboard).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/plans/{evaluationId}", planHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/plans/{evaluationId}/status", planHandler.Status).Methods("GET", "OPTIONS")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questionnaires", questionnaireHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires", questionnaireHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}", questionnaireHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}", questionnaireHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}", questionnaireHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}/activate", questionnaireHandler.Activate).Methods("POST", "OPTIONS")

	adminRoutes.HandleFunc("/admin/users", adminHandler.ListUsers).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/users/{userId}/role", adminHandler.UpdateUserRole).Methods("PUT", "OPTIONS")

	adminRoutes.HandleFunc("/admin/assessments", adminHandler.ListAssessments).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/assessments/stats", adminHandler.Stats).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/assessments/export/scores", adminHandler.ExportScores).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/assessments/export/full", adminHandler.ExportFull).Methods("GET", "OPTIONS")

	adminRoutes.HandleFunc("/plans/{evaluationId}", planHandler.UpdateDraft).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/plans/{evaluationId}/publish", planHandler.Publish).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization, X-Callback-Key"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
