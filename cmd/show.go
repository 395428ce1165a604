package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danmalone/pagemeta/internal/metadata"
	"github.com/danmalone/pagemeta/internal/pages"
)

var showCmd = &cobra.Command{
	Use:   "show [page]",
	Short: "Show the metadata record for a page",
	Long: `Run the pipeline for one page and print the resulting metadata record.
Without an argument the default page (home) is shown.

Example:
  pagemeta show
  pagemeta show blog/launch --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var (
	flagShowJSON bool
	flagShowYAML bool
)

func init() {
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the record as JSON")
	showCmd.Flags().BoolVar(&flagShowYAML, "yaml", false, "Print the record as YAML")
	showCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}

	page := ""
	if len(args) == 1 {
		page = args[0]
	}
	p, err := svc.PageContent(cmd.Context(), page)
	if err != nil {
		if page == "" {
			page = svc.DefaultPage()
		}
		return pageError(page, err)
	}

	switch {
	case flagShowJSON:
		return writeJSON(os.Stdout, p.Metadata)
	case flagShowYAML:
		return writeYAML(os.Stdout, p.Metadata)
	}

	rel, _ := svc.Loader().Path(p.ID)
	printPage(os.Stdout, p, filepath.Join(cfg.ContentPath(), filepath.FromSlash(rel)))
	return nil
}

func writeJSON(w io.Writer, md metadata.Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(md)
}

func writeYAML(w io.Writer, md metadata.Metadata) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(md); err != nil {
		return fmt.Errorf("cannot encode metadata: %w", err)
	}
	return enc.Close()
}

// printPage displays the human-readable summary for one page.
func printPage(w io.Writer, p *pages.Page, path string) {
	md := p.Metadata

	fmt.Fprintf(w, "📄 Page: %s\n", p.ID)
	fmt.Fprintf(w, "Title:        %s\n", md.Title)
	fmt.Fprintf(w, "Description:  %s\n", md.Description)
	fmt.Fprintf(w, "Keywords:     %s\n", strings.Join(md.Keywords, ", "))
	for _, a := range md.Authors {
		fmt.Fprintf(w, "Author:       %s\n", a.Name)
	}
	fmt.Fprintf(w, "Base URL:     %s\n", md.MetadataBase)

	fmt.Fprintln(w, "\nOpen Graph:")
	fmt.Fprintf(w, "  type:       %s\n", md.OpenGraph.Type)
	fmt.Fprintf(w, "  locale:     %s\n", md.OpenGraph.Locale)
	fmt.Fprintf(w, "  url:        %s\n", md.OpenGraph.URL)
	fmt.Fprintf(w, "  site name:  %s\n", md.OpenGraph.SiteName)
	for _, img := range md.OpenGraph.Images {
		fmt.Fprintf(w, "  image:      %s (%dx%d) %q\n", img.URL, img.Width, img.Height, img.Alt)
	}

	fmt.Fprintln(w, "\nTwitter:")
	fmt.Fprintf(w, "  card:       %s\n", md.Twitter.Card)
	for _, img := range md.Twitter.Images {
		fmt.Fprintf(w, "  image:      %s\n", img)
	}

	fmt.Fprintf(w, "\nRobots:       index=%t follow=%t\n", md.Robots.Index, md.Robots.Follow)
	fmt.Fprintf(w, "Icons:        %s, %s\n", md.Icons.Icon, md.Icons.Apple)

	if warnings := metadata.Lint(p.Data); len(warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, wn := range warnings {
			fmt.Fprintf(w, "  ⚠  %s\n", wn)
		}
	}
	fmt.Fprintf(w, "\nPath: %s\n", path)
}
