package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/hough-circles-mcp/internal/config"
	"github.com/ironsheep/hough-circles-mcp/internal/logger"
	"github.com/ironsheep/hough-circles-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	args := os.Args[1:]
	for len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("hough-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "--config requires a file path")
				os.Exit(2)
			}
			configPath = args[1]
			args = args[2:]
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s (see --help)\n", args[0])
			os.Exit(2)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Debug("main", "starting", map[string]interface{}{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
		"method":     cfg.Method,
		"quantile":   cfg.DefaultQuantile,
		"timeout":    cfg.Timeout.String(),
		"max_radius": cfg.MaxRadius,
	})

	srv := server.NewWithConfig(cfg, log, Version)
	if err := srv.Run(); err != nil {
		log.Error("main", fmt.Errorf("server error: %w", err), nil)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("hough-mcp - MCP server for fixed-radius circle detection")
	fmt.Println()
	fmt.Println("Usage: hough-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE  Read settings from a TOML file")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (override the config file):")
	fmt.Println("  HOUGH_MCP_LOG_LEVEL=debug      debug, info, warn or error")
	fmt.Println("  HOUGH_MCP_LOG_FORMAT=json      console or json")
	fmt.Println("  HOUGH_MCP_QUANTILE=0.99        Default detection quantile")
	fmt.Println("  HOUGH_MCP_METHOD=auto          auto, direct or fft")
	fmt.Println("  HOUGH_MCP_TIMEOUT=60s          Per-call deadline")
	fmt.Println("  HOUGH_MCP_MAX_RADIUS=1024      Largest accepted radius")
	fmt.Println("  HOUGH_MCP_KERNEL_CACHE_SIZE=64 Ring kernels kept between calls")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
