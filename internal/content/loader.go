package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// Loader reads page documents from <root>/<page>/<indexFile>.
type Loader struct {
	fsys      fs.FS
	indexFile string
}

// NewLoader returns a Loader over the content root directory on disk.
func NewLoader(root, indexFile string) *Loader {
	return NewLoaderFS(os.DirFS(root), indexFile)
}

// NewLoaderFS returns a Loader over an arbitrary filesystem.
func NewLoaderFS(fsys fs.FS, indexFile string) *Loader {
	return &Loader{fsys: fsys, indexFile: indexFile}
}

// IndexFile returns the per-page file name the loader looks for.
func (l *Loader) IndexFile() string { return l.indexFile }

// Path resolves a page identifier to its slash path relative to the root.
// Identifiers may name nested pages ("blog/launch") but never leave the root.
func (l *Loader) Path(page string) (string, error) {
	page = strings.Trim(strings.TrimSpace(page), "/")
	if page == "" {
		return "", ErrInvalidPage
	}
	p := path.Join(page, l.indexFile)
	if !fs.ValidPath(p) || strings.HasPrefix(p, "../") || p == l.indexFile {
		return "", ErrInvalidPage
	}
	return p, nil
}

// Load reads the page's content file and splits off its front matter.
// Every call performs its own read; nothing is cached.
func (l *Loader) Load(ctx context.Context, page string) (*Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	page = strings.Trim(strings.TrimSpace(page), "/")
	p, err := l.Path(page)
	if err != nil {
		return nil, &LoadError{Page: page, Path: page, Err: err}
	}

	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, &LoadError{Page: page, Path: p, Err: err}
	}

	fm, block, body, format, err := Split(raw)
	if err != nil {
		return nil, &ParseError{Page: page, Path: p, Err: err}
	}

	return &Document{
		Page:        page,
		Path:        p,
		Format:      format,
		FrontMatter: fm,
		Body:        body,
		Raw:         raw,
		block:       block,
	}, nil
}

// Discover returns the identifiers of every page below the root that has an
// index file, sorted.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	var out []string
	walkFn := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != l.indexFile {
			return nil
		}
		dir := path.Dir(p)
		if dir == "." {
			return nil
		}
		out = append(out, dir)
		return nil
	}

	if err := fs.WalkDir(l.fsys, ".", walkFn); err != nil {
		return nil, fmt.Errorf("cannot scan content root: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
