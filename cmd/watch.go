package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danmalone/pagemeta/internal/metadata"
	"github.com/danmalone/pagemeta/internal/pages"
	"github.com/danmalone/pagemeta/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate pages as they are saved",
	Long: `Watch the content root and run the pipeline for every page whose index
file changes, printing the result. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var flagWatchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&flagWatchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed page is checked")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}

	w, err := watch.New(cfg.ContentPath(), cfg.IndexFile, logger)
	if err != nil {
		return err
	}
	w.SetDebounce(flagWatchDebounce)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	printInfo("", "watching "+cfg.ContentPath())
	for page := range w.Events() {
		p, err := svc.PageContent(ctx, page)
		reportPage(page, p, err)
	}
	return nil
}

// reportPage prints the outcome of one pipeline run.
func reportPage(page string, p *pages.Page, err error) {
	if err != nil {
		printErr(page, describeFailure(err))
		return
	}
	warnings := metadata.Lint(p.Data)
	for _, wn := range warnings {
		printWarn(page, wn.String())
	}
	if len(warnings) == 0 {
		printOK(page, "valid")
	}
}
