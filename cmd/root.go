package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danmalone/pagemeta/internal/config"
	"github.com/danmalone/pagemeta/internal/content"
	"github.com/danmalone/pagemeta/internal/metadata"
	"github.com/danmalone/pagemeta/internal/pages"
)

var (
	flagConfig      string
	flagContentRoot string
	flagVerbose     bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "pagemeta",
	Short:        "pagemeta: page content and head metadata for the site",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `pagemeta loads per-page content documents (front matter + body),
validates the front matter and maps it to the metadata record used to fill
the page head.

Pages live under the content root as <page>/index.mdx.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if flagVerbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.FileName, "Path to pagemeta.yaml")
	rootCmd.PersistentFlags().StringVar(&flagContentRoot, "content-root", "", "Override the content root from the config")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config and applies --content-root.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	if flagContentRoot != "" {
		root, err := filepath.Abs(flagContentRoot)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve content root: %w", err)
		}
		cfg.ContentRoot = root
	}
	return cfg, nil
}

// newService wires the pipeline from cfg. The base URL is resolved once here
// and handed to the mapper.
func newService(cfg *config.Config) (*pages.Service, error) {
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}
	mapper, err := metadata.NewMapper(baseURL)
	if err != nil {
		return nil, fmt.Errorf("cannot use %s: %w", config.BaseURLKey, err)
	}
	loader := content.NewLoader(cfg.ContentPath(), cfg.IndexFile)
	return pages.NewService(loader, mapper,
		pages.WithDefaultPage(cfg.DefaultPage),
		pages.WithLogger(logger),
	), nil
}

// setup is the common preamble of commands that run the pipeline.
func setup() (*config.Config, *pages.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, err := newService(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

// pageError adds a hint to errors a user can act on.
func pageError(page string, err error) error {
	if content.IsNotFound(err) {
		return fmt.Errorf("page %q not found: %w\nTip: run 'pagemeta check' to list pages, or 'pagemeta new %s' to create it.", page, err, page)
	}
	return fmt.Errorf("page %q: %w", page, err)
}
