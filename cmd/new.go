package cmd

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danmalone/pagemeta/internal/content"
	"github.com/danmalone/pagemeta/internal/metadata"
)

var newCmd = &cobra.Command{
	Use:   "new <page>",
	Short: "Scaffold a new page with complete front matter",
	Long: `Create <content-root>/<page>/index.mdx with every required front matter
field filled in, so the page validates before it is edited.

Author and site name default to the values of the default page.

Example:
  pagemeta new about --title "About Dan"
  pagemeta new blog/launch --format toml`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var (
	flagNewTitle    string
	flagNewAuthor   string
	flagNewSiteName string
	flagNewFormat   string
	flagNewForce    bool
)

func init() {
	newCmd.Flags().StringVar(&flagNewTitle, "title", "", "Page title (default: derived from the page name)")
	newCmd.Flags().StringVar(&flagNewAuthor, "author", "", "Author name (default: from the default page)")
	newCmd.Flags().StringVar(&flagNewSiteName, "site-name", "", "Site name (default: from the default page)")
	newCmd.Flags().StringVar(&flagNewFormat, "format", string(content.FormatYAML), "Front matter format: yaml or toml")
	newCmd.Flags().BoolVar(&flagNewForce, "force", false, "Overwrite an existing page")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	format, err := content.ParseFormat(flagNewFormat)
	if err != nil {
		return err
	}
	page := strings.Trim(strings.TrimSpace(args[0]), "/")

	title := flagNewTitle
	if title == "" {
		title = titleFromPage(page)
	}
	author, siteName := flagNewAuthor, flagNewSiteName
	if author == "" || siteName == "" {
		if home, err := svc.PageContent(cmd.Context(), ""); err == nil {
			if author == "" {
				author = home.Data.Author
			}
			if siteName == "" {
				siteName = home.Data.SiteName
			}
		}
	}
	if author == "" || siteName == "" {
		return fmt.Errorf("cannot infer author and site name from page %q\nPass --author and --site-name.", svc.DefaultPage())
	}

	baseURL, err := cfg.BaseURL()
	if err != nil {
		return err
	}
	data := metadata.Template(title, author, baseURL, siteName)
	data.URL = scaffoldURL(baseURL, page, svc.DefaultPage())
	body := []byte("\n# " + title + "\n")
	raw, err := content.Encode(format, data, body)
	if err != nil {
		return err
	}

	w := content.NewWriter(cfg.ContentPath(), cfg.IndexFile)
	var dst string
	if flagNewForce {
		dst, err = w.Write(cmd.Context(), page, raw)
	} else {
		dst, err = w.Create(cmd.Context(), page, raw)
	}
	if errors.Is(err, content.ErrPageExists) {
		return fmt.Errorf("page %q already exists\nUse --force to overwrite it.", page)
	}
	if err != nil {
		return err
	}

	if _, err := svc.PageContent(cmd.Context(), page); err != nil {
		return fmt.Errorf("scaffolded page does not validate: %w", err)
	}
	printOK(page, fmt.Sprintf("created %s", dst))
	return nil
}

// scaffoldURL is the page's own URL; the default page lives at the site root.
func scaffoldURL(baseURL, page, defaultPage string) string {
	if page == defaultPage {
		return metadata.PageURL(baseURL, "")
	}
	return metadata.PageURL(baseURL, page)
}

// titleFromPage turns the last path segment into a title: "fractional-cto"
// becomes "Fractional Cto".
func titleFromPage(page string) string {
	base := path.Base(page)
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.BritishEnglish).String(base)
}
