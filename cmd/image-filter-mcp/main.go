package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-filter-mcp/internal/server"
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
			fmt.Printf("image-filter-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-filter-mcp - MCP server for image filters")
			fmt.Println()
			fmt.Println("Usage: image-filter-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Filters: grayscale, edge_detect, blur, sepia, invert, sketch")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_FILTER_LOG_LEVEL=debug      Enable debug logging")
			fmt.Println("  IMAGE_FILTER_MAX_REQUEST_MB=32    Largest request line in MiB (uploads included)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := server.ConfigFromEnv()
	if cfg.Debug {
		log.Printf("Image Filter MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Max request size: %d bytes", cfg.MaxRequestBytes)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
