package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-reminder/internal/bot"
	"tg-reminder/internal/config"
	"tg-reminder/internal/crash"
	"tg-reminder/internal/handler"
	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
	"tg-reminder/internal/schedule"
	"tg-reminder/internal/service"
	"tg-reminder/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// Initialize database if enabled
	if cfg.Database.Enabled {
		if err := storage.Initialize(cfg); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		log.Println("Database connection established")
	}

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize handler and services with configuration
	handler.Initialize(cfg)
	if err := service.InitStore(ctx); err != nil {
		log.Fatalf("Failed to initialize reminder store: %v", err)
	}

	// Initialize bot with configuration
	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	// Start HTTP server in a goroutine when webhook mode is active
	if server != nil {
		crash.SafeGoroutine("webhook-server", func() {
			if err := server.Start(); err != nil {
				log.Fatalf("HTTP server error: %v", err)
			}
		})

		// Give server time to start
		time.Sleep(500 * time.Millisecond)
		log.Println("HTTP server is ready, starting bot handler...")
	}

	// Setup and start message handlers
	handler.SetupMessageHandlers(botService.Handler, botService.Bot)
	crash.SafeGoroutine("bot-handler", func() {
		botService.Start()
	})

	// Start the due-reminder dispatcher
	sender := handler.NewReminderSender(botService.Bot, cfg.Bot.ChatID)
	dispatcher := schedule.NewDispatcher(service.Store(), sender, cfg.Reminder.TickInterval,
		cfg.Reminder.DefaultTimezone, func(reminder models.Reminder) {
			service.GetLifecycle().OnDelivered(cfg.Bot.ChatID, reminder)
		})
	dispatcher.Start(ctx)

	// Create a channel for receiving OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	botService.Stop()
	cancel()

	if server != nil {
		// Gracefully shutdown server
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}

	log.Println("Server gracefully stopped")
}
