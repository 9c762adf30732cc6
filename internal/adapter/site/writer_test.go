package site

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() domain.Snapshot {
	stations := domain.AssembleStations(domain.AggregateCrafts([]domain.Signal{
		{Dir: domain.DirectionUp, Station: domain.StationGoldstone, Band: "X", Power: "18.3 kW", Craft: "Voyager 1"},
		{Dir: domain.DirectionDown, Station: domain.StationGoldstone, Band: "X", Power: "-160 dBm", DataRate: "160 bps", Craft: "Voyager 1"},
	}, domain.DefaultPolicy()))
	return domain.Snapshot{
		RunID: "run-1",
		Output: domain.Output{
			BaseURL:   "https://dsn.example.com",
			Stations:  stations,
			UpdatedAt: "2024-01-15T08:30:00Z",
		},
	}
}

func writeSite(t *testing.T, w *Writer, snap domain.Snapshot) {
	t.Helper()
	require.NoError(t, w.Load(context.Background(), snap))
	require.NoError(t, w.Commit(context.Background()))
}

func stagingDirs(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var staged []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".site-") {
			staged = append(staged, e.Name())
		}
	}
	return staged
}

func TestWriter_Load(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "_site")
	images := filepath.Join(root, "images")
	require.NoError(t, os.MkdirAll(filepath.Join(images, "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(images, "dsn-2.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(images, "icons", "flag.png"), []byte("flag"), 0o644))

	w := NewWriter(out, images, discardLogger())
	snap := testSnapshot()
	writeSite(t, w, snap)

	data, err := os.ReadFile(filepath.Join(out, JSONFile))
	require.NoError(t, err)
	var decoded domain.Output
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap.Output, decoded)

	html, err := os.ReadFile(filepath.Join(out, IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Voyager 1")
	assert.Contains(t, string(html), "https://dsn.example.com/images/dsn-2.png")

	copied, err := os.ReadFile(filepath.Join(out, ImagesDir, "icons", "flag.png"))
	require.NoError(t, err)
	assert.Equal(t, "flag", string(copied))
}

func TestWriter_Load_ReplacesPreviousSite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "_site")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.txt"), []byte("old"), 0o644))

	w := NewWriter(out, "", discardLogger())
	writeSite(t, w, testSnapshot())

	_, err := os.Stat(filepath.Join(out, "stale.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.FileExists(t, filepath.Join(out, JSONFile))
	assert.NoDirExists(t, filepath.Join(out, ImagesDir))
}

func TestWriter_Load_MissingImagesDirIsSkipped(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "_site")

	w := NewWriter(out, filepath.Join(root, "no-such-dir"), discardLogger())
	writeSite(t, w, testSnapshot())

	assert.FileExists(t, filepath.Join(out, IndexFile))
}

func TestWriter_Load_ImagesPathIsFile(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "_site")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("keep"), 0o644))
	notDir := filepath.Join(root, "images")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))

	w := NewWriter(out, notDir, discardLogger())
	err := w.Load(context.Background(), testSnapshot())

	require.Error(t, err)
	assert.FileExists(t, filepath.Join(out, "keep.txt"), "previous site survives a failed run")
	assert.Empty(t, stagingDirs(t, root), "staging dir cleaned up")
}

func TestWriter_Load_WritesNothingBeforeCommit(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "_site")

	w := NewWriter(out, "", discardLogger())
	require.NoError(t, w.Load(context.Background(), testSnapshot()))

	assert.NoDirExists(t, out)
	assert.Len(t, stagingDirs(t, root), 1)
}

func TestWriter_Discard(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "_site")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("keep"), 0o644))

	w := NewWriter(out, "", discardLogger())
	require.NoError(t, w.Load(context.Background(), testSnapshot()))
	w.Discard()

	assert.FileExists(t, filepath.Join(out, "keep.txt"))
	assert.NoFileExists(t, filepath.Join(out, JSONFile))
	assert.Empty(t, stagingDirs(t, root))
	assert.Error(t, w.Commit(context.Background()), "nothing left to commit")
}

func TestWriter_Load_ReplacesEarlierStaging(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "_site")

	w := NewWriter(out, "", discardLogger())
	first := testSnapshot()
	second := testSnapshot()
	second.Output.UpdatedAt = "2024-01-15T09:30:00Z"

	require.NoError(t, w.Load(context.Background(), first))
	require.NoError(t, w.Load(context.Background(), second))
	require.Len(t, stagingDirs(t, root), 1)
	require.NoError(t, w.Commit(context.Background()))

	data, err := os.ReadFile(filepath.Join(out, JSONFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-01-15T09:30:00Z")
	assert.Empty(t, stagingDirs(t, root))
}

func TestWriter_Commit_WithoutLoad(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "_site"), "", discardLogger())
	assert.EqualError(t, w.Commit(context.Background()), "no staged site to commit")
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, testSnapshot().Output))

	page := buf.String()
	assert.Contains(t, page, "Madrid")
	assert.Contains(t, page, "Goldstone")
	assert.Contains(t, page, "Canberra")
	assert.Contains(t, page, "No active signals")
	assert.Contains(t, page, "-160 dBm")
	assert.Contains(t, page, "160 bps")
	assert.Contains(t, page, "Updated 2024-01-15T08:30:00Z")
}

func TestRenderHTML_EscapesNames(t *testing.T) {
	out := domain.Output{Stations: []domain.Station{{
		Name:   "Madrid",
		Crafts: []domain.Craft{{Name: "<script>x</script>", Icon: "dsn-1.png"}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, out))

	assert.NotContains(t, buf.String(), "<script>x</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}
