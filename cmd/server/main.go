package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hbrothers.com/concierge/internal/analytics"
	"hbrothers.com/concierge/internal/api"
	"hbrothers.com/concierge/internal/config"
	"hbrothers.com/concierge/internal/core"
	"hbrothers.com/concierge/internal/events"
	"hbrothers.com/concierge/internal/menu"
	"hbrothers.com/concierge/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for the owner CSV export
	exportFlag := flag.Bool("export", false, "Dump the analytics session history as CSV to stdout and exit")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Analytics history slot: Redis when configured, SQLite otherwise
	var historyStore analytics.Store
	if config.AppConfig.RedisAddr != "" {
		redisStore := analytics.NewRedisStore(
			config.AppConfig.RedisAddr,
			config.AppConfig.RedisPassword,
			config.AppConfig.RedisDB,
			config.AppConfig.AnalyticsKey,
		)
		defer redisStore.Close()
		historyStore = redisStore
		log.Printf("Analytics history backed by Redis at %s", config.AppConfig.RedisAddr)
	} else {
		historyStore = dbStore.AnalyticsSlot(config.AppConfig.AnalyticsKey)
	}

	// Handle the one-shot export if the flag is set
	if *exportFlag {
		sessions, err := historyStore.Load()
		if err != nil {
			log.Fatalf("Failed to load analytics history: %v", err)
		}
		fmt.Println(analytics.ExportCSV(sessions))
		os.Exit(0)
	}

	// Load site content (restaurant facts + menu catalog)
	site, err := menu.LoadSite(config.AppConfig.SiteContentFile)
	if err != nil {
		log.Fatalf("Failed to load site content: %v", err)
	}
	log.Printf("Loaded %d menu items for %s", len(site.Catalog.Items()), site.Restaurant.Name)

	// Optional event sink
	var sink analytics.Sink = analytics.NopSink{}
	if config.AppConfig.AMQPURL != "" {
		publisher, err := events.NewPublisher(config.AppConfig.AMQPURL, config.AppConfig.AMQPQueue)
		if err != nil {
			// The sink is best effort; its absence must not affect anything else.
			log.Printf("Warning: event sink unavailable, continuing without it: %v", err)
		} else {
			defer publisher.Close()
			sink = publisher
			log.Printf("Publishing analytics events to queue %s", config.AppConfig.AMQPQueue)
		}
	}

	// LLM generator; nil degrades every response to the fallback reply
	var gen core.Generator
	if config.AppConfig.GeminiAPIKey != "" {
		llmService, err := core.NewLLMService(context.Background(), config.AppConfig.GeminiAPIKey)
		if err != nil {
			log.Printf("Warning: GenAI client unavailable, responses will degrade: %v", err)
		} else {
			defer llmService.Close()
			gen = llmService
		}
	}

	// Initialize Chat service; each conversation gets its own recorder
	chatService := core.NewChatService(dbStore, gen, site, func() *analytics.Recorder {
		return analytics.NewRecorder(historyStore, sink)
	})

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, historyStore, site,
		config.AppConfig.AdminPassword, config.AppConfig.JWTSecret)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
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
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

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
