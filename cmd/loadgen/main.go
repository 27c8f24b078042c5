package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/clientscore/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumRequests = 10000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numRequests = flag.Int("requests", defaultNumRequests, "Number of requests to generate and submit")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		account     = flag.String("account", "horns&hoofs", "Account to sign requests with")
		login       = flag.String("login", "h&f", "Login to sign requests with")
		salt        = flag.String("salt", "Otus", "Shared secret used for token derivation")
		logFile     = flag.String("log", "", "Log file for run output (default: load_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	// Setup logging
	if err := loadtest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &loadtest.Config{
		BaseURL:     *baseURL,
		NumRequests: *numRequests,
		Workers:     *workers,
		Timeout:     *timeout,
		Account:     *account,
		Login:       *login,
		Salt:        *salt,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the load generator
	if err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		return
	}
}
