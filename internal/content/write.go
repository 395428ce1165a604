package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrPageExists is returned by Create when the page already has a file.
var ErrPageExists = errors.New("page already exists")

// LockFile is created in the content root to serialise writers.
const LockFile = ".pagemeta.lock"

// Writer replaces page files on disk. Writes are serialised across processes
// with a lock file in the content root.
type Writer struct {
	root        string
	loader      *Loader
	LockTimeout time.Duration
}

// NewWriter returns a Writer for the content root.
func NewWriter(root, indexFile string) *Writer {
	return &Writer{
		root:        root,
		loader:      NewLoader(root, indexFile),
		LockTimeout: 5 * time.Second,
	}
}

// FilePath returns the on-disk path of the page's content file.
func (w *Writer) FilePath(page string) (string, error) {
	p, err := w.loader.Path(page)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.root, filepath.FromSlash(p)), nil
}

// Create writes a new page file and fails with ErrPageExists if one is
// already present.
func (w *Writer) Create(ctx context.Context, page string, data []byte) (string, error) {
	return w.write(ctx, page, data, false)
}

// Write replaces the page file, creating it if needed.
func (w *Writer) Write(ctx context.Context, page string, data []byte) (string, error) {
	return w.write(ctx, page, data, true)
}

func (w *Writer) write(ctx context.Context, page string, data []byte, overwrite bool) (string, error) {
	dst, err := w.FilePath(page)
	if err != nil {
		return "", &LoadError{Page: page, Path: page, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("cannot create page dir for %s: %w", page, err)
	}

	unlock, err := acquireLock(ctx, filepath.Join(w.root, LockFile), w.LockTimeout)
	if err != nil {
		return "", err
	}
	defer unlock()

	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return "", fmt.Errorf("%w: %s", ErrPageExists, dst)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("cannot stat %s: %w", dst, err)
		}
	}

	if err := atomicWrite(dst, data); err != nil {
		return "", err
	}
	return dst, nil
}

// acquireLock polls for the lock until it is held, the timeout passes or ctx
// is cancelled.
func acquireLock(ctx context.Context, lockPath string, timeout time.Duration) (func(), error) {
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire lock %s: %w", lockPath, err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another write is in progress (lock: %s)", lockPath)
		}
		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// atomicWrite writes data to a temp file in dst's directory and renames it
// over dst.
func atomicWrite(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("cannot create temp file for %s: %w", dst, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot replace %s: %w", dst, err)
	}
	return nil
}
