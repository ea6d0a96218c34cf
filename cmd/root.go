package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/citematch/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions carries the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    bool

	crossrefURL string
	worldcatURL string
	mailto      string
	rows        int
	timeout     time.Duration
	cachePath   string
	cacheTTL    time.Duration

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "citematch",
		Short: "Match free-text citations against Crossref and WorldCat",
		Long: `Citematch resolves a free-text bibliographic query ("author title year") to
catalog records.

The query is sent to Crossref and WorldCat concurrently. A candidate is kept only
when its title appears in the query and every leftover query word is explained by
the candidate's authors or publication years.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logLevel := slog.LevelInfo
			if opts.verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

			return opts.loadConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	flags.StringVar(&opts.crossrefURL, "crossref-url", "", "Crossref API base URL")
	flags.StringVar(&opts.worldcatURL, "worldcat-url", "", "WorldCat base URL")
	flags.StringVar(&opts.mailto, "mailto", "", "Contact address sent to Crossref's polite pool")
	flags.IntVar(&opts.rows, "rows", 0, "Number of Crossref candidates to request")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-source HTTP timeout")
	flags.StringVar(&opts.cachePath, "cache", "", "Path to an on-disk fetch cache (bbolt)")
	flags.DurationVar(&opts.cacheTTL, "cache-ttl", 0, "How long cached fetches stay valid")

	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newEvalCmd(opts))

	return cmd
}

// loadConfig resolves defaults, the config file, the environment and then
// any flag the user set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("crossref-url") {
		cfg.Crossref.BaseURL = o.crossrefURL
	}
	if flags.Changed("worldcat-url") {
		cfg.WorldCat.BaseURL = o.worldcatURL
	}
	if flags.Changed("mailto") {
		cfg.Crossref.Mailto = o.mailto
	}
	if flags.Changed("rows") {
		cfg.Crossref.Rows = o.rows
	}
	if flags.Changed("timeout") {
		cfg.Crossref.Timeout = o.timeout
		cfg.WorldCat.Timeout = o.timeout
	}
	if flags.Changed("cache") {
		cfg.Cache.Path = o.cachePath
	}
	if flags.Changed("cache-ttl") {
		cfg.Cache.TTL = o.cacheTTL
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg
	slog.Debug("Configuration loaded",
		"crossref", cfg.Crossref.BaseURL,
		"worldcat", cfg.WorldCat.BaseURL,
		"cache", cfg.Cache.Path)
	return nil
}
