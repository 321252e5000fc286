package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/framefill/internal/document"
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
	"github.com/piwi3910/framefill/internal/project"
)

// harness runs commands against an isolated config file in a temp dir.
type harness struct {
	t   *testing.T
	dir string
	cfg string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{t: t, dir: dir, cfg: filepath.Join(dir, "config.toml")}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var out, logs bytes.Buffer
	c := New(&out, &logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append(args, "--config", h.cfg))
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.Execute()
	return out.String(), logs.String(), err
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()
	p := h.path(name)
	require.NoError(h.t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// writeDoc saves a page frame holding one "Hero Image" placeholder.
func (h *harness) writeDoc(name string, heroFill document.FillState) string {
	h.t.Helper()
	d := document.New()
	_, err := d.AddNode("", document.Node{ID: "page", Name: "Landing", Kind: document.KindFrame, Width: 800, Height: 600})
	require.NoError(h.t, err)
	_, err = d.AddNode("page", document.Node{ID: "hero", Name: "Hero Image", Kind: document.KindRectangle,
		X: 20, Y: 20, Width: 400, Height: 300, SupportsContentFill: true, Fill: document.Fill{State: heroFill}})
	require.NoError(h.t, err)
	d.Select([]model.NodeID{"page"})
	d.SetViewport(model.NewRect(0, 0, 1000, 800))

	p := h.path(name)
	require.NoError(h.t, document.WriteFile(p, d))
	return p
}

func (h *harness) readDoc(p string) *document.Document {
	h.t.Helper()
	d, err := document.ReadFile(p)
	require.NoError(h.t, err)
	return d
}

func (h *harness) writeLibrary(name string, images ...model.ImageItem) string {
	h.t.Helper()
	p := h.path(name)
	require.NoError(h.t, project.SaveLibrary(p, model.Library{Images: images}))
	return p
}

const imagesJSON = `[
  {"id": "a", "src": "https://cdn.example.com/a.jpg", "alt": "Sunset", "width": 400, "height": 300},
  {"id": "b", "src": "https://cdn.example.com/b.jpg", "width": 100, "height": 100}
]`

func TestPlace_UpdatesDocument(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillNone)
	images := h.writeFile("images.json", imagesJSON)

	out, _, err := h.run("place", "--doc", docPath, "--images", images)
	require.NoError(t, err)
	assert.Contains(t, out, "Sunset")

	d := h.readDoc(docPath)
	hero, ok := d.Node("hero")
	require.True(t, ok)
	assert.Equal(t, document.FillImage, hero.Fill.State)
	assert.Equal(t, model.ContentHandle("https://cdn.example.com/a.jpg"), hero.Fill.Content)
	assert.Equal(t, 3, d.Len(), "unmatched image is packed as a new node")
	assert.Len(t, d.Selection(), 2)

	cfg, err := project.LoadAppConfig(h.cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{docPath}, cfg.RecentDocuments)
}

func TestPlace_DryRunLeavesDocument(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillNone)
	images := h.writeFile("images.json", imagesJSON)

	out, _, err := h.run("place", "--doc", docPath, "--images", images, "--container", "page", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Placement preview")

	d := h.readDoc(docPath)
	assert.Equal(t, 2, d.Len())
	hero, _ := d.Node("hero")
	assert.Equal(t, document.FillNone, hero.Fill.State)
}

func TestPlace_OutAndExports(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillNone)
	images := h.writeFile("images.json", imagesJSON)
	outPath := h.path("placed.json")

	_, _, err := h.run("place", "--doc", docPath, "--images", images, "--out", outPath,
		"--pdf", h.path("layout.pdf"), "--labels", h.path("labels.pdf"),
		"--xlsx", h.path("layout.xlsx"), "--dxf", h.path("layout.dxf"))
	require.NoError(t, err)

	assert.Equal(t, 2, h.readDoc(docPath).Len(), "source document untouched when --out is set")
	assert.Equal(t, 3, h.readDoc(outPath).Len())
	for _, name := range []string{"layout.pdf", "labels.pdf", "layout.xlsx", "layout.dxf"} {
		info, err := os.Stat(h.path(name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestPlace_StrictRollsBack(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillMixed)
	images := h.writeFile("images.json", imagesJSON)

	_, _, err := h.run("place", "--doc", docPath, "--images", images, "--strict")
	require.Error(t, err)
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeFillRejected))

	d := h.readDoc(docPath)
	assert.Equal(t, 2, d.Len(), "created nodes are rolled back")
	hero, _ := d.Node("hero")
	assert.Equal(t, document.FillMixed, hero.Fill.State)
}

func TestPlace_RefusedWriteWithoutStrict(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillMixed)
	images := h.writeFile("images.json", imagesJSON)

	out, logs, err := h.run("place", "--doc", docPath, "--images", images)
	require.NoError(t, err)
	assert.Contains(t, out, "1 writes were refused")
	assert.Contains(t, logs, "hero")
	assert.Equal(t, 3, h.readDoc(docPath).Len())
}

func TestPlace_Errors(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillNone)
	images := h.writeFile("images.json", imagesJSON)

	_, _, err := h.run("place", "--doc", h.path("missing.json"), "--images", images)
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeFileNotFound))

	_, _, err = h.run("place", "--doc", docPath, "--images", images, "--container", "nope")
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeNoContainer))

	_, _, err = h.run("place", "--doc", docPath, "--images", images, "--container", "hero")
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeInvalidContainer))

	empty := h.writeFile("empty.json", `[]`)
	_, _, err = h.run("place", "--doc", docPath, "--images", empty)
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeInvalidInput))
}

func TestScan(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillNone)

	out, _, err := h.run("scan", "--doc", docPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 placeholders")
	assert.Contains(t, out, "Hero Image")

	_, _, err = h.run("scan", "--doc", docPath, "--container", "nope")
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeNoContainer))
}

func TestCompare(t *testing.T) {
	h := newHarness(t)
	docPath := h.writeDoc("page.json", document.FillNone)
	images := h.writeFile("images.json", imagesJSON)

	out, _, err := h.run("compare", "--doc", docPath, "--images", images)
	require.NoError(t, err)
	assert.Contains(t, out, "5 scenarios for 2 images")
	assert.Contains(t, out, "Tight Grid")
	assert.Equal(t, 2, h.readDoc(docPath).Len())
}

func TestImportAndLibrary(t *testing.T) {
	h := newHarness(t)
	lib := h.path("library.json")
	csv := h.writeFile("batch.csv", "src,width,height,alt,service\n"+
		"https://a.example.com/1.jpg,300,200,One,Unsplash\n"+
		"https://a.example.com/2.jpg,100,100,Two,\n"+
		"https://a.example.com/3.jpg,300,200,Three,Unsplash\n")

	out, _, err := h.run("import", csv, "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "duplicates skipped")

	// Importing the same file again adds nothing.
	_, _, err = h.run("import", csv, "--library", lib)
	require.NoError(t, err)
	stored, err := project.LoadLibrary(lib)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 3)

	out, _, err = h.run("library", "sizes", "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "2 sizes")
	assert.Contains(t, out, model.SizeKey(300, 200))

	out, _, err = h.run("library", "list", "--library", lib, "--size", "300x200")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 3 images")
	assert.Contains(t, out, "One")
	assert.NotContains(t, out, "Two")

	out, _, err = h.run("library", "services", "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "Unsplash")
	assert.Contains(t, out, model.UnknownService)

	out, _, err = h.run("library", "remove-service", "Unsplash", "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 images")
	stored, err = project.LoadLibrary(lib)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 1)
}

func TestImport_NoImages(t *testing.T) {
	h := newHarness(t)
	empty := h.writeFile("empty.json", `{"images": []}`)
	_, _, err := h.run("import", empty, "--library", h.path("library.json"))
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeInvalidInput))
}

func TestApply(t *testing.T) {
	h := newHarness(t)
	lib := h.writeLibrary("library.json",
		model.ImageItem{ID: "a", Source: "https://a.example.com/a.jpg", Content: "content-a", Width: 400, Height: 300},
		model.ImageItem{ID: "b", Source: "https://a.example.com/b.jpg", Content: "content-b", Width: 100, Height: 100},
	)
	docPath := h.writeDoc("page.json", document.FillNone)
	d := h.readDoc(docPath)
	d.Select([]model.NodeID{"hero"})
	require.NoError(t, document.WriteFile(docPath, d))

	_, _, err := h.run("apply", "--doc", docPath, "--library", lib, "--image-id", "b", "--image-id", "a")
	require.NoError(t, err)

	hero, _ := h.readDoc(docPath).Node("hero")
	assert.Equal(t, document.FillImage, hero.Fill.State)
	assert.Equal(t, model.ContentHandle("content-b"), hero.Fill.Content, "first picked image wins")
	assert.Equal(t, model.ScaleFill, hero.Fill.ScaleMode)
}

func TestApply_Errors(t *testing.T) {
	h := newHarness(t)
	lib := h.writeLibrary("library.json", model.ImageItem{ID: "a", Content: "content-a", Width: 400, Height: 300})
	docPath := h.writeDoc("page.json", document.FillNone)

	_, _, err := h.run("apply", "--doc", docPath, "--library", lib, "--image-id", "zzz")
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeNotFound))

	// The selected page frame does not take image fills.
	_, _, err = h.run("apply", "--doc", docPath, "--library", lib, "--image-id", "a")
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeFillRejected))
}

func TestDrop(t *testing.T) {
	h := newHarness(t)
	lib := h.writeLibrary("library.json",
		model.ImageItem{ID: "wide", Alt: "Wide", Content: "content-wide", Width: 2000, Height: 1000})
	docPath := h.writeDoc("page.json", document.FillNone)

	out, _, err := h.run("drop", "--doc", docPath, "--library", lib, "--image-id", "wide")
	require.NoError(t, err)
	assert.Contains(t, out, "Dropped Wide")

	d := h.readDoc(docPath)
	sel := d.Selection()
	require.Len(t, sel, 1)
	n, ok := d.Node(sel[0])
	require.True(t, ok)
	assert.InDelta(t, 1000, n.Width, 1e-9)
	assert.InDelta(t, 500, n.Height, 1e-9)
	assert.InDelta(t, 0, n.X, 1e-9)
	assert.InDelta(t, 150, n.Y, 1e-9)
	assert.Equal(t, model.ContentHandle("content-wide"), n.Fill.Content)
}

func TestImportDXF_MissingFile(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("import-dxf", h.path("missing.dxf"), "--out", h.path("doc.json"))
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeFileNotFound))
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")
	_, err = os.Stat(h.cfg)
	require.NoError(t, err)

	out, _, err = h.run("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	cfg := model.DefaultAppConfig()
	cfg.DefaultPadding = 42
	cfg.ExtraKeywords = []string{"hero"}
	require.NoError(t, project.SaveAppConfig(h.cfg, cfg))

	out, _, err = h.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "photo, hero")
}

func TestConfig_InvalidFile(t *testing.T) {
	h := newHarness(t)
	h.writeFile("config.toml", "default_padding = [")
	_, _, err := h.run("config", "show")
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeInvalidFormat))
}

func TestBackupRoundTrip(t *testing.T) {
	h := newHarness(t)
	lib := h.writeLibrary("library.json", model.ImageItem{ID: "a", Source: "https://a.example.com/a.jpg", Width: 10, Height: 10})
	backup := h.path("backup.json")

	_, _, err := h.run("backup", "export", backup, "--library", lib)
	require.NoError(t, err)

	restored := h.path("restored.json")
	out, _, err := h.run("backup", "import", backup, "--library", restored)
	require.NoError(t, err)
	assert.Contains(t, out, "1 images added")

	stored, err := project.LoadLibrary(restored)
	require.NoError(t, err)
	require.Len(t, stored.Images, 1)
	assert.Equal(t, "a", stored.Images[0].ID)

	_, _, err = h.run("backup", "import", h.path("missing.json"))
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeFileNotFound))
}

func TestParseSizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"300x200", model.SizeKey(300, 200), true},
		{"300×200", model.SizeKey(300, 200), true},
		{" 64 X 64 ", model.SizeKey(64, 64), true},
		{model.AllSizes, model.AllSizes, true},
		{"300", "", false},
		{"0x10", "", false},
		{"axb", "", false},
	}
	for _, tt := range tests {
		got, err := parseSizeKey(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
