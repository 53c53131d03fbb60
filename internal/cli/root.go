// Package cli provides the command-line interface for Hexit.
package cli

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/hexit/internal/colour"
	"github.com/jmylchreest/hexit/internal/config"
	"github.com/jmylchreest/hexit/internal/logging"
	"github.com/jmylchreest/hexit/internal/rank"
	"github.com/jmylchreest/hexit/internal/service"
	httputil "github.com/jmylchreest/hexit/internal/util/http"
	"github.com/jmylchreest/hexit/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
	logJSON    bool
}

// NewRootCmd builds the hexit command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "hexit",
		Short: "Extract the dominant colours of an image from its URL",
		Long: `Hexit fetches an image from a URL, extracts its Vibrant-style swatches
and picks up to two representative colours.

Run "hexit serve" for the web UI and the GET /v2?url= endpoint, or
"hexit extract <url>" to run the same pipeline once from the terminal.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	addGlobalFlags(rootCmd.PersistentFlags(), opts)
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func addGlobalFlags(fs *pflag.FlagSet, opts *globalOptions) {
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file (default $HEXIT_CONFIG)")
	fs.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before HEXIT_* variables are read")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&opts.logJSON, "log-json", false, "log in JSON format")
}

// addPolicyFlag registers --policy on a command that ranks swatches.
func addPolicyFlag(fs *pflag.FlagSet, dst *string) {
	names := make([]string, 0, len(rank.ValidPolicies()))
	for _, p := range rank.ValidPolicies() {
		names = append(names, string(p))
	}
	fs.StringVarP(dst, "policy", "p", string(rank.DefaultPolicy),
		fmt.Sprintf("ranking policy (%s)", strings.Join(names, ", ")))
}

// setup loads the configuration, applies command-line overrides and creates
// the root logger. override may be nil.
func (o *globalOptions) setup(cmd *cobra.Command, override func(*config.Config)) (*config.Config, hclog.Logger, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:    o.configPath,
		EnvFile: o.envFile,
	})
	if err != nil {
		return nil, nil, err
	}

	if o.logJSON {
		cfg.Log.JSON = true
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logger := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	})
	return cfg, logger, nil
}

// applyPolicy copies --policy into cfg when it was set explicitly.
func applyPolicy(fs *pflag.FlagSet, policy string, cfg *config.Config) {
	if fs.Changed("policy") {
		cfg.Rank.Policy = rank.Policy(strings.ToLower(strings.TrimSpace(policy)))
	}
}

// newColourService assembles the fetch, extract and rank pipeline from cfg.
func newColourService(cfg *config.Config, logger hclog.Logger) (*service.ColourService, error) {
	ranker, err := rank.New(cfg.Rank.Policy)
	if err != nil {
		return nil, err
	}

	fetcher := httputil.NewFetcher(httputil.FetchOptions{
		Timeout:           cfg.Fetch.Timeout,
		MaxBytes:          cfg.Fetch.MaxBytes,
		UserAgent:         cfg.Fetch.UserAgent,
		BlockPrivateHosts: cfg.Fetch.BlockPrivateHosts,
	})
	extractor := colour.NewVibrantExtractor(cfg.Extract)

	logger.Debug("pipeline configured",
		"policy", cfg.Rank.Policy,
		"colour_count", cfg.Extract.ColourCount,
		"quality", cfg.Extract.Quality,
		"max_dimension", cfg.Extract.MaxDimension,
		"max_pixels", cfg.Extract.MaxPixels,
	)
	return service.NewColourService(fetcher, extractor, ranker, logger), nil
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version number only")
	return cmd
}
