package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandpilot.io/marketing-backend/internal/api"
	"brandpilot.io/marketing-backend/internal/config"
	"brandpilot.io/marketing-backend/internal/core"
	"brandpilot.io/marketing-backend/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize credential store
	credentials, err := store.NewFileCredentialStore(config.AppConfig.UsersFile)
	if err != nil {
		log.Fatalf("Failed to initialize credential store: %v", err)
	}

	// Initialize chat history store
	history, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize chat history database: %v", err)
	}
	defer history.Close()

	// Initialize completion gateway and services
	gateway := core.NewOpenAIGateway(config.AppConfig.OpenAIAPIKey, config.AppConfig.OpenAIModel)
	contentService := core.NewContentService(gateway)
	chatService := core.NewChatService(history, gateway)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(credentials, contentService, chatService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // completion calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
