package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmalone/pagemeta/internal/content"
	"github.com/danmalone/pagemeta/internal/metadata"
	"github.com/danmalone/pagemeta/internal/pages"
)

var checkCmd = &cobra.Command{
	Use:   "check [page...]",
	Short: "Validate every page under the content root",
	Long: `Run the pipeline for every page (or only the pages given) and report
parse errors, missing front matter fields and lint warnings.

Exits non-zero when any page fails.`,
	RunE: runCheck,
}

var flagCheckConcurrency int

func init() {
	checkCmd.Flags().IntVarP(&flagCheckConcurrency, "concurrency", "j", 0, "Pages checked in parallel (default: GOMAXPROCS)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}

	var results []pages.CheckResult
	if len(args) > 0 {
		results, err = svc.CheckPages(cmd.Context(), args, flagCheckConcurrency)
	} else {
		results, err = svc.Check(cmd.Context(), flagCheckConcurrency)
	}
	if err != nil {
		return err
	}

	printSection("pagemeta check")
	fmt.Printf("  Content root: %s\n\n", cfg.ContentPath())

	if len(results) == 0 {
		printSkip("", "no pages found")
		return nil
	}

	var failed, warned int
	for _, r := range results {
		switch {
		case !r.OK():
			failed++
			printErr(r.Page, describeFailure(r.Err))
		case len(r.Warnings) > 0:
			warned++
			for _, w := range r.Warnings {
				printWarn(r.Page, w.String())
			}
		default:
			printOK(r.Page, "valid")
		}
	}

	fmt.Printf("\n%d page(s): %d failed, %d with warnings\n", len(results), failed, warned)
	if failed > 0 {
		return fmt.Errorf("%d of %d page(s) failed validation", failed, len(results))
	}
	return nil
}

// describeFailure shortens pipeline errors to one line for the report.
func describeFailure(err error) string {
	var (
		mfe *metadata.MissingFieldError
		pe  *content.ParseError
		le  *content.LoadError
	)
	switch {
	case errors.As(err, &mfe):
		return "missing fields: " + strings.Join(mfe.Fields, ", ")
	case errors.As(err, &pe):
		return "cannot parse " + pe.Path + ": " + pe.Err.Error()
	case content.IsNotFound(err):
		return "no index file"
	case errors.As(err, &le):
		return "cannot read " + le.Path + ": " + le.Err.Error()
	}
	return err.Error()
}
