package site

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/dsn-status-service/internal/domain"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Output file names inside the site directory.
const (
	JSONFile  = "dsn.json"
	IndexFile = "index.html"
	ImagesDir = "images"
)

// Writer renders a snapshot into a static site directory.
// It implements pipeline.Loader and pipeline.Committer: Load builds the site
// in a staging directory and Commit swaps it into place.
type Writer struct {
	dir       string
	imagesDir string
	logger    *slog.Logger

	mu     sync.Mutex
	staged string
	runID  string
}

// NewWriter creates a site writer targeting dir. When imagesDir exists it is
// copied into dir/images on every run.
func NewWriter(dir, imagesDir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, imagesDir: imagesDir, logger: logger}
}

// Load builds the site in a temporary sibling of dir. Nothing under dir
// changes until Commit.
func (w *Writer) Load(_ context.Context, snapshot domain.Snapshot) error {
	parent := filepath.Dir(filepath.Clean(w.dir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create site parent: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, ".site-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	if err := w.build(tmp, snapshot.Output); err != nil {
		os.RemoveAll(tmp)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.discardLocked()
	w.staged = tmp
	w.runID = snapshot.RunID
	return nil
}

// Commit replaces dir with the staged site.
func (w *Writer) Commit(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staged == "" {
		return errors.New("no staged site to commit")
	}
	defer w.discardLocked()

	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove old site: %w", err)
	}
	if err := os.Rename(w.staged, w.dir); err != nil {
		return fmt.Errorf("publish site: %w", err)
	}

	w.logger.Info("site written", "dir", w.dir, "run_id", w.runID)
	w.staged = ""
	return nil
}

// Discard drops a staged site, leaving dir untouched.
func (w *Writer) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.discardLocked()
}

func (w *Writer) discardLocked() {
	if w.staged != "" {
		os.RemoveAll(w.staged)
	}
	w.staged = ""
	w.runID = ""
}

func (w *Writer) build(dir string, out domain.Output) error {
	if err := os.Chmod(dir, 0o755); err != nil {
		return fmt.Errorf("chmod staging dir: %w", err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, JSONFile), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", JSONFile, err)
	}

	f, err := os.Create(filepath.Join(dir, IndexFile))
	if err != nil {
		return fmt.Errorf("create %s: %w", IndexFile, err)
	}
	if err := RenderHTML(f, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", IndexFile, err)
	}

	return w.copyImages(dir)
}

func (w *Writer) copyImages(dir string) error {
	if w.imagesDir == "" {
		return nil
	}
	info, err := os.Stat(w.imagesDir)
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("images directory not found, skipping", "images_dir", w.imagesDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat images dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("images path %s is not a directory", w.imagesDir)
	}
	if err := os.CopyFS(filepath.Join(dir, ImagesDir), os.DirFS(w.imagesDir)); err != nil {
		return fmt.Errorf("copy images: %w", err)
	}
	return nil
}

// RenderHTML writes the display page for a snapshot.
func RenderHTML(w io.Writer, out domain.Output) error {
	if err := indexTemplate.Execute(w, out); err != nil {
		return fmt.Errorf("render %s: %w", IndexFile, err)
	}
	return nil
}
