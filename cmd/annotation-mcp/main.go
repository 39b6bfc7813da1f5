package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ironsheep/annotation-tools-mcp/internal/config"
	"github.com/ironsheep/annotation-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("annotation-tools-mcp - MCP server for photo annotation geometry")
	fmt.Println()
	fmt.Println("Usage: annotation-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH    Read configuration from PATH")
	fmt.Println("  --init-config    Write the default configuration (to --config PATH if given) and exit")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=PATH       Configuration file (default %s)\n", config.EnvConfigPath, config.GetConfigPath())
	fmt.Printf("  %s=debug   Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=eng  Tesseract language for reading values\n", config.EnvOCRLanguage)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	var (
		configPath string
		initConfig bool
	)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("annotation-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			usage()
			return
		case arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--init-config":
			initConfig = true
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n\n", arg)
			usage()
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if initConfig {
		path, err := config.WriteDefault(configPath)
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	server.Version = Version
	if cfg.Debug() {
		log.Printf("Annotation MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
