package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/workoutgen/internal/app"
	"github.com/claude/workoutgen/internal/config"
	"github.com/claude/workoutgen/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "workoutgen server URL for remote mode (e.g. https://workoutgen.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("WORKOUTGEN_AUTH_API_KEY"), "API key for template writes in remote mode")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("workoutgen-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var backend mcp.Backend
	if *serverURL != "" {
		backend = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		a, err := app.Open(context.Background(), cfg, log)
		if err != nil {
			log.Error("startup failed", "error", err)
			os.Exit(1)
		}
		defer a.Close()
		backend = a.Service
		log.Info("local mode", "config", *configPath)
	}

	s := mcp.New(backend, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
