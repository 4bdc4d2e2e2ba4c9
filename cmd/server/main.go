package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/spendwise/internal/api"
	"github.com/spendwise/spendwise/internal/api/controller"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/infrastructure/database"
	"github.com/spendwise/spendwise/internal/infrastructure/llm"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/service"
)

// @title           Spendwise API
// @version         1.0
// @description     Expense tracking backend with AI-assisted categorization and natural-language querying.

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer <token>" (with a space between Bearer and the token)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := database.New(conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	// Missing completion-service credentials kill the process here, not on
	// the first categorization request.
	completions, err := llm.NewClient(conf.AI.APIKey, conf.AI.BaseURL, conf.AI.Model, conf.AI.RequestTimeout)
	if err != nil {
		log.Fatalf("completion client init failed: %v", err)
	}

	categoryRepo := repository.NewCategoryRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// Blacklist entries past their token's own expiry are dead weight.
	if err := tokenRepo.PurgeExpired(context.Background()); err != nil {
		slog.Warn("revoked token purge failed", "error", err)
	}

	categorizer := service.NewCategorizer(completions, categoryRepo, conf.AI.CategorizeMaxTokens)
	queryAdvisor := service.NewQueryAdvisor(completions, expenseRepo, conf.AI.QueryMaxTokens)
	expenseSvc := service.NewExpenseService(expenseRepo, categoryRepo, categorizer, conf.AI.AutoAssignThreshold)
	categorySvc := service.NewCategoryService(categoryRepo)
	authSvc := service.NewAuthService(userRepo, tokenRepo, conf.JWT)

	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.RegisterRoutes(r, conf.JWT.Secret, api.Controllers{
		Auth:     controller.NewAuthController(authSvc),
		Category: controller.NewCategoryController(categorySvc),
		Expense:  controller.NewExpenseController(expenseSvc),
		Query:    controller.NewQueryController(queryAdvisor),
	})

	slog.Info("spendwise server starting", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
