package cmd

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmalone/pagemeta/internal/content"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [page...]",
	Short: "Rewrite page front matter in canonical form",
	Long: `Re-encode the front matter of each page (all pages when none are given)
with sorted keys and two-space indentation. The body is left untouched.

--to converts between YAML and TOML front matter.
--check reports pages that would change and exits non-zero without writing.`,
	RunE: runFmt,
}

var (
	flagFmtTo    string
	flagFmtCheck bool
)

func init() {
	fmtCmd.Flags().StringVar(&flagFmtTo, "to", "", "Convert front matter to yaml or toml")
	fmtCmd.Flags().BoolVar(&flagFmtCheck, "check", false, "Only report pages that are not formatted")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	var to content.Format
	if flagFmtTo != "" {
		if to, err = content.ParseFormat(flagFmtTo); err != nil {
			return err
		}
	}

	loader := svc.Loader()
	ids := args
	if len(ids) == 0 {
		if ids, err = loader.Discover(cmd.Context()); err != nil {
			return err
		}
	}

	w := content.NewWriter(cfg.ContentPath(), cfg.IndexFile)
	var changed, failed int
	for _, id := range ids {
		doc, err := loader.Load(cmd.Context(), id)
		if err != nil {
			failed++
			printErr(id, describeFailure(err))
			continue
		}
		out, err := formatDocument(doc, to)
		if err != nil {
			failed++
			printErr(doc.Page, err.Error())
			continue
		}
		if bytes.Equal(out, doc.Raw) {
			printSkip(doc.Page, "already formatted")
			continue
		}
		changed++
		if flagFmtCheck {
			printWarn(doc.Page, "not formatted")
			continue
		}
		if _, err := w.Write(cmd.Context(), doc.Page, out); err != nil {
			return err
		}
		printOK(doc.Page, "formatted")
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d page(s) could not be formatted", failed)
	case flagFmtCheck && changed > 0:
		return fmt.Errorf("%d page(s) not formatted", changed)
	}
	return nil
}

// formatDocument re-encodes doc, optionally in another front matter format.
// TOML has no null, so a record with null values is not converted to it.
func formatDocument(doc *content.Document, to content.Format) ([]byte, error) {
	format := doc.Format
	if to != "" {
		format = to
	}
	if format == content.FormatTOML {
		if keys := nullKeys("", doc.FrontMatter); len(keys) > 0 {
			return nil, fmt.Errorf("cannot write toml: null values at %s", strings.Join(keys, ", "))
		}
	}
	return content.Encode(format, doc.FrontMatter, doc.Body)
}

// nullKeys returns the sorted dotted paths of nil values in v.
func nullKeys(prefix string, v any) []string {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	var out []string
	switch t := v.(type) {
	case nil:
		if prefix != "" {
			out = append(out, prefix)
		}
	case content.Record:
		return nullKeys(prefix, map[string]any(t))
	case map[string]any:
		for k, val := range t {
			out = append(out, nullKeys(join(k), val)...)
		}
	case []any:
		for i, val := range t {
			out = append(out, nullKeys(join(strconv.Itoa(i)), val)...)
		}
	}
	sort.Strings(out)
	return out
}
