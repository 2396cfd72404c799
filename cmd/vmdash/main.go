package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gemops/vmdash/internal/api"
	"github.com/gemops/vmdash/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath   string
	apiURL       string
	outputFormat string
	noHeaders    bool
	verbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vmdash",
	Short: "vmdash - VM fleet dashboard client",
	Long: `vmdash is a terminal client for an HTTP VM management backend.

It lists the virtual machine fleet, filters it client-side, toggles
power state, and prepares SSH connection commands. The backend base URL
comes from a YAML config file, the VMDASH_API_URL environment variable,
or the --api-url flag.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and environment)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, yaml, or json")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false, "omit headers in table output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level diagnostic logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(dashCmd)
}

// session bundles everything a command needs to talk to the backend.
type session struct {
	config *config.Config
	client *api.Client
	logger *zap.Logger
}

// newSession resolves the configuration (file, environment, then
// flags) and builds the API client and diagnostic logger.
func newSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Flags win over both the file and the environment.
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if outputFormat != "" {
		cfg.Output = outputFormat
	}
	if verbose {
		cfg.Verbose = true
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	client := api.New(cfg.APIBaseURL,
		api.WithLogger(logger),
		api.WithHTTPClient(httpClient(cfg)),
	)

	return &session{config: cfg, client: client, logger: logger}, nil
}

// newLogger builds the diagnostic logger. This channel is not part of
// user-facing behavior: it goes to stderr and stays quiet unless
// verbose mode is on.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// httpClient applies the configured request timeout.
func httpClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout()}
}
