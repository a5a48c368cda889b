package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"tg-reminder/internal/ai"
	"tg-reminder/internal/config"
	"tg-reminder/internal/schedule"
)

// Small probe for the extraction prompt: feed it a message from the command
// line and print what comes back, plus the resolved UTC instant.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	forwarded := flag.Bool("forwarded", false, "Treat the message as forwarded content")
	flag.Parse()

	message := strings.Join(flag.Args(), " ")
	if message == "" {
		log.Fatalf("Usage: extract_test [-config path] [-forwarded] <message text>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := ai.NewClient(cfg.AiApi)
	if !client.IsConfigured() {
		log.Fatalf("ai.api_key is not set in the configuration")
	}
	extractor := ai.NewExtractor(client, cfg.Reminder.DefaultTimezone)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	info, err := extractor.Extract(ctx, message, time.Now().UTC(), ai.ExtractOptions{Forwarded: *forwarded})
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
	if info == nil {
		fmt.Println("Not recognized as a reminder")
		return
	}

	fmt.Printf("Text:     %s\n", info.Text)
	fmt.Printf("DateTime: %s\n", info.DateTime)
	fmt.Printf("Timezone: %s\n", info.Timezone)

	if info.DateTime != "" {
		fireAt, err := schedule.Resolve(info.DateTime, info.Timezone, cfg.Reminder.DefaultTimezone)
		if err != nil {
			fmt.Printf("Resolve error: %v\n", err)
			return
		}
		fmt.Printf("Fires at: %s (UTC)\n", fireAt.Format("2006-01-02 15:04:05"))
	}
}
