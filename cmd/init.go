package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmalone/pagemeta/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create pagemeta.yaml, the content root and a .env template",
	Long: `Bootstrap a site directory:

  pagemeta.yaml   content root, index file, default page, base URL, listen address
  content/pages/  the content root
  .env            PAGEMETA_BASE_URL override (left empty)

Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Write pagemeta.yaml if missing ─────────────────────────────────────
	if _, err := os.Stat(flagConfig); errors.Is(err, fs.ErrNotExist) {
		cfg := config.DefaultConfig()
		if flagContentRoot != "" {
			cfg.ContentRoot = flagContentRoot
		}
		if err := config.Save(flagConfig, cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", flagConfig))
	} else if err != nil {
		return fmt.Errorf("cannot stat %s: %w", flagConfig, err)
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", flagConfig))
	}

	// ── 2. Load final config ──────────────────────────────────────────────────
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// ── 3. Create the content root ────────────────────────────────────────────
	root := cfg.ContentPath()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", root, err)
	}
	printOK("", fmt.Sprintf("Content root ready: %s", root))

	// ── 4. .env template ──────────────────────────────────────────────────────
	created, err := cfg.EnsureDotEnvTemplate()
	if err != nil {
		return err
	}
	if created {
		printOK("", fmt.Sprintf(".env written: %s", cfg.DotEnvPath()))
	} else {
		printSkip("", fmt.Sprintf(".env already exists: %s", cfg.DotEnvPath()))
	}

	fmt.Printf("\n✓  pagemeta init complete. Run 'pagemeta new %s --author <name> --site-name <name>' to create the default page.\n", cfg.DefaultPage)
	return nil
}
