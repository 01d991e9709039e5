package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/logger"
	"github.com/ironsheep/docscan-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("docscan-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("docscan-mcp - MCP server for document scanning")
			fmt.Println()
			fmt.Println("Usage: docscan-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  DOCSCAN_LOG_LEVEL=info          debug, info, warn or error")
			fmt.Println("  DOCSCAN_LOG_FORMAT=text         text or json")
			fmt.Println("  DOCSCAN_LOG_FILE=               Also log to this file (rotated)")
			fmt.Println("  DOCSCAN_DETECT_MAX_DIM=500      Working size for corner detection, 0 = full size")
			fmt.Println("  DOCSCAN_INTERPOLATION=bilinear  bilinear or nearest")
			fmt.Println("  DOCSCAN_OCR_LANGUAGE=eng        Tesseract language")
			fmt.Println("  DOCSCAN_TESSDATA_PREFIX=        Tesseract data directory")
			fmt.Println("  DOCSCAN_MAX_SESSIONS=64         Open sessions before the oldest is closed")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "docscan-mcp: failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan-mcp: %v\n", err)
		os.Exit(1)
	}

	// stdout is for MCP protocol
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	log.WithFields(logrus.Fields{
		"build_time": BuildTime,
		"commit":     GitCommit,
	}).Debugf("docscan-mcp %s", Version)

	server.Version = Version
	srv := server.New(cfg, log)
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("Server error")
	}
}
