// Package main initializes and starts the contactbook HTTP server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atarasov/contactbook/internal/config"
	"github.com/atarasov/contactbook/internal/db"
	"github.com/atarasov/contactbook/internal/logger"
	"github.com/atarasov/contactbook/internal/repository"
	"github.com/atarasov/contactbook/internal/server/handler/http"
	"github.com/atarasov/contactbook/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Address
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is required (-secret flag or JWT_SECRET)")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted contacts in the background.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for users and contacts.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	contactsRepo := repository.NewPostgresContactsRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo, options.JWTSecret)
	contactsService := service.NewContactsService(contactsRepo)

	// Create HTTP handlers for auth and contact endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	contactsHandler := &http.ContactsHandler{ContactsService: contactsService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, contactsHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
