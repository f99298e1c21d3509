package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/api"
	"tameny.app/tameny-server/internal/config"
	"tameny.app/tameny-server/internal/core"
	"tameny.app/tameny-server/internal/logger"
	"tameny.app/tameny-server/internal/push"
	"tameny.app/tameny-server/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	log, err := logger.NewLogger(config.AppConfig.LogLevel, config.AppConfig.LogFormat, "tameny-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Command line flag for knowledge-base ingestion
	ingestFlag := flag.Bool("ingest", false, "Ingest the knowledge file and exit")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbStore.Close()

	// Initialize LLM service
	llmService, err := core.NewLLMService(log)
	if err != nil {
		log.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	// Handle knowledge ingestion if flag is set
	if *ingestFlag {
		log.Info("Starting knowledge ingestion", zap.String("file", config.AppConfig.KnowledgeFile))
		count, err := dbStore.IngestKnowledgeFile(config.AppConfig.KnowledgeFile, llmService.Embed)
		if err != nil {
			log.Fatal("Knowledge ingestion failed", zap.Error(err))
		}
		log.Info("Knowledge ingestion complete, exiting", zap.Int("chunks", count))
		return
	}

	// Initialize services
	knowledgeService, err := core.NewKnowledgeService(dbStore, llmService, log)
	if err != nil {
		log.Fatal("Failed to initialize knowledge service", zap.Error(err))
	}

	pushClient := push.NewClient(
		config.AppConfig.FCMEndpoint,
		config.AppConfig.FCMServerKey,
		config.AppConfig.PushTopic,
		log,
	)

	accountService := core.NewAccountService(dbStore, log)
	chatService := core.NewChatService(dbStore, llmService, knowledgeService, log)
	growthService := core.NewGrowthService(dbStore, log)
	broadcastService := core.NewBroadcastService(dbStore, pushClient, log)

	// Initialize API handler and router
	apiHandler := api.NewAPIHandler(dbStore, accountService, chatService, growthService, broadcastService, log)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Info("Starting server", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Could not listen", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting gracefully")
}
