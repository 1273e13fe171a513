package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"equisecure/internal/cache"
	"equisecure/internal/config"
	"equisecure/internal/repository"
	"equisecure/internal/service"
	"equisecure/internal/transport/rest"
	"equisecure/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	planGenCfg := config.DefaultPlanGenConfig()
	if planGenCfg.IsEnabled() {
		log.Println("Plan generation: webhook configured ✓")
	} else {
		log.Println("Plan generation: NOT SET (plans stay not_generated)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	facilityRepo := repository.NewFacilityRepo(db)
	questionnaireRepo := repository.NewQuestionnaireRepo(db)
	evaluationRepo := repository.NewEvaluationRepo(db)
	planRepo := repository.NewPlanRepo(db)

	// Initialize caches
	questionnaireCache := cache.NewQuestionnaireCache(rdb)
	statsCache := cache.NewStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	userSvc := service.NewUserService(userRepo)
	facilitySvc := service.NewFacilityService(facilityRepo)
	questionnaireSvc := service.NewQuestionnaireService(questionnaireRepo, questionnaireCache)
	planGen := service.NewPlanGenClient(planGenCfg)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, questionnaireSvc, facilitySvc, planRepo, planGen, statsCache)
	planSvc := service.NewPlanService(planRepo, evaluationRepo, planGenCfg.APIKey)
	exportSvc := service.NewExportService(evaluationRepo, facilityRepo, userRepo, questionnaireRepo, statsCache)

	// Wire the plan watcher (wsHub implements service.StatusPublisher)
	watcher := service.NewPlanWatcher(planRepo, time.Duration(planGenCfg.PollSeconds)*time.Second)
	watcher.SetPublisher(wsHub)
	evaluationSvc.SetWatcher(watcher)
	planSvc.SetWatcher(watcher)
	defer watcher.Shutdown()

	// Create router with container
	container := &rest.Container{
		AuthService:          authSvc,
		UserService:          userSvc,
		FacilityService:      facilitySvc,
		QuestionnaireService: questionnaireSvc,
		EvaluationService:    evaluationSvc,
		PlanService:          planSvc,
		ExportService:        exportSvc,
		WSHub:                wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/facilities")
		log.Println("  GET  /v1/questionnaires/active")
		log.Println("  POST /v1/evaluations")
		log.Println("  GET  /v1/evaluations/{id}/report")
		log.Println("  GET  /v1/dashboard")
		log.Println("  GET  /v1/admin/assessments")
		log.Println("  WS   /v1/ws/admin/plans")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
