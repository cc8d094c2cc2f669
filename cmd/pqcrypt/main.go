package main

import (
	"flag"
	"fmt"
	"os"

	pkgversion "github.com/parquetcrypt/core/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "demo":
		demoCommand()
	case "bench":
		benchCommand()
	case "example":
		exampleCommand()
	case "version":
		fmt.Printf("pqcrypt version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pqcrypt - Parquet Modular Encryption Demo & Benchmark Tool

USAGE:
    pqcrypt <command> [options]

COMMANDS:
    demo      Encrypt and decrypt a synthetic multi-row-group file
    bench     Run performance benchmarks
    example   Show example usage with explanations
    version   Print version information
    help      Show this help message

Run 'pqcrypt <command> --help' for more information on a command.

EXAMPLES:
    # Round trip with a single uniform footer key
    pqcrypt demo --mode uniform --verbose

    # Round trip with a selectively-keyed sensitive column
    pqcrypt demo --mode selective --obs-addr :9090

    # Benchmark module seal/open throughput
    pqcrypt bench --modules 10000 --throughput --size 100MB

    # Show interactive examples
    pqcrypt example

PROJECT:
    Quantum-Go - Parquet Modular Encryption Core
    https://github.com/parquetcrypt/core

    Algorithm: AES-128-GCM with per-module additional authenticated data`)
}

func demoCommand() {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	mode := fs.String("mode", "uniform", "Key routing mode: uniform or selective")
	verbose := fs.Bool("verbose", false, "Verbose output")
	obsAddr := fs.String("obs-addr", "", "Observability server address. Empty disables")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	tracing := fs.String("tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqcrypt demo [options]

Encrypt a synthetic multi-row-group, multi-column Parquet file, then
decrypt and authenticate every module (footer, pages) to demonstrate
the module AAD binding.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Every column under one footer key
    pqcrypt demo --mode uniform --verbose

    # One column under its own key, the other columns left unencrypted
    pqcrypt demo --mode selective --verbose

    # Serve Prometheus metrics and health checks while the demo runs
    pqcrypt demo --obs-addr :9090`)
	}

	_ = fs.Parse(os.Args[2:])

	runDemo(*mode, *verbose, *obsAddr, *logLevel, *logFormat, *tracing)
}

func benchCommand() {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	modules := fs.Int("modules", 0, "Number of module seal/open round trips to benchmark (0 = skip)")
	throughput := fs.Bool("throughput", false, "Run sustained throughput benchmark")
	size := fs.String("size", "100MB", "Data size for throughput test (e.g., 100MB, 1GB)")
	duration := fs.String("duration", "10s", "Duration for throughput test (e.g., 10s, 1m)")
	pageSize := fs.Int("page-size", 8192, "Synthetic page size in bytes")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqcrypt bench [options]

Run performance benchmarks for module seal/open and sustained throughput.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Benchmark 10000 seal/open round trips
    pqcrypt bench --modules 10000

    # Benchmark sustained throughput for 30 seconds
    pqcrypt bench --throughput --duration 30s

    # Run both benchmarks
    pqcrypt bench --modules 10000 --throughput --size 500MB`)
	}

	_ = fs.Parse(os.Args[2:])

	runBench(*modules, *throughput, *size, *duration, *pageSize)
}

func exampleCommand() {
	if len(os.Args) > 2 && (os.Args[2] == "--help" || os.Args[2] == "-h") {
		fmt.Println(`USAGE: pqcrypt example

Display interactive examples with code snippets showing how to use the library.

This command shows:
  - Basic file encryptor/decryptor setup
  - Selective column-key routing
  - Page encryption and header serialization
  - Error handling idioms`)
		return
	}

	showExamples()
}
