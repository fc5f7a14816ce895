package materialize

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/go-kit/kit/log"
	"github.com/go-test/deep"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/structure"
)

type applyCall struct {
	Folder string
	Icon   string
}

type recorder struct {
	applied     []applyCall
	invalidated int
	applyErr    error
}

func (r *recorder) ApplyFolderIcon(folderPath, iconFile string) error {
	r.applied = append(r.applied, applyCall{Folder: folderPath, Icon: iconFile})
	return r.applyErr
}

func (r *recorder) InvalidateShellCaches() { r.invalidated++ }

func (r *recorder) Name() string { return "recorder" }

func writePNG(t *testing.T, fs afero.Afero, path string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(32, 32, color.NRGBA{G: 180, A: 255})))
	require.NoError(t, fs.WriteFile(path, buf.Bytes(), 0644))
}

func decode(t *testing.T, doc string) *structure.Document {
	t.Helper()
	d, err := structure.Decode([]byte(doc))
	require.NoError(t, err)
	return d
}

func newTestMaterializer(t *testing.T) (*Materializer, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := New(log.NewNopLogger(), afero.Afero{Fs: afero.NewMemMapFs()}, rec)
	m.IconBase = "/cfg"
	return m, rec
}

func TestProjectsScenario(t *testing.T) {
	req := require.New(t)
	m, rec := newTestMaterializer(t)
	writePNG(t, m.FS, "/cfg/icons/star.png")

	doc := decode(t, `{"folders": {"Projects": {"_icon": "icons/star.png", "2024": {}}}}`)
	report := m.Run(doc, "/out")
	req.NoError(report.Err())

	for _, dir := range []string{"/out/Projects", "/out/Projects/2024"} {
		ok, err := m.FS.DirExists(dir)
		req.NoError(err)
		req.True(ok, dir)
	}

	ok, err := m.FS.Exists("/out/Projects/star.ico")
	req.NoError(err)
	req.True(ok)

	ini, err := m.FS.ReadFile("/out/Projects/desktop.ini")
	req.NoError(err)
	req.Equal("[.ShellClassInfo]\r\nIconResource=.\\star.ico,0\r\n", string(ini))

	ok, err = m.FS.Exists("/out/Projects/2024/desktop.ini")
	req.NoError(err)
	req.False(ok, "folders without an icon get no metadata file")

	if diff := deep.Equal(rec.applied, []applyCall{{Folder: "/out/Projects", Icon: "star.ico"}}); diff != nil {
		t.Error(diff)
	}
	req.Equal(1, rec.invalidated)
	req.Equal([]string{"/out/Projects", "/out/Projects/2024"}, report.Created)
	req.Equal([]string{"/out/Projects"}, report.Iconed)
}

func TestRunIsIdempotent(t *testing.T) {
	req := require.New(t)
	m, _ := newTestMaterializer(t)
	writePNG(t, m.FS, "/cfg/icons/star.png")
	doc := decode(t, `{"folders": {"Projects": {"_icon": "icons/star.png", "2024": {}}}}`)

	first := m.Run(doc, "/out")
	req.NoError(first.Err())
	firstICO, err := m.FS.ReadFile("/out/Projects/star.ico")
	req.NoError(err)

	second := m.Run(doc, "/out")
	req.NoError(second.Err())
	req.Empty(second.Created)
	req.Equal([]string{"/out/Projects", "/out/Projects/2024"}, second.Existing)
	req.Equal(first.Iconed, second.Iconed)

	secondICO, err := m.FS.ReadFile("/out/Projects/star.ico")
	req.NoError(err)
	req.Equal(firstICO, secondICO)

	entries, err := m.FS.ReadDir("/out/Projects")
	req.NoError(err)
	req.Len(entries, 3, "2024, desktop.ini and star.ico")
}

func TestPartialFailureIsolation(t *testing.T) {
	req := require.New(t)
	m, rec := newTestMaterializer(t)
	writePNG(t, m.FS, "/cfg/b.png")
	req.NoError(m.FS.WriteFile("/cfg/broken.png", []byte("not an image"), 0644))
	req.NoError(m.FS.MkdirAll("/out", 0755))
	req.NoError(m.FS.WriteFile("/out/Blocked", []byte("a file"), 0644))

	doc := decode(t, `{"folders": {
		"A": {"_icon": "missing.png", "A1": {}},
		"Blocked": {"Inner": {}},
		"Broken": {"_icon": "broken.png"},
		"B": {"_icon": "b.png"}
	}}`)
	report := m.Run(doc, "/out")

	req.Error(report.Err())
	req.Len(report.Failures, 3)

	stage, failed := report.FailedStage(structure.Path{"A"})
	req.True(failed)
	req.Equal(StageIcon, stage)
	var notFound *apperr.NotFoundError
	req.True(errors.As(report.Failures[0].Err, &notFound))

	stage, _ = report.FailedStage(structure.Path{"Blocked"})
	req.Equal(StageFolder, stage)
	var ioErr *apperr.IOError
	req.True(errors.As(report.Failures[1].Err, &ioErr))

	stage, _ = report.FailedStage(structure.Path{"Broken"})
	req.Equal(StageIcon, stage)
	var convErr *apperr.IconConversionError
	req.True(errors.As(report.Failures[2].Err, &convErr))

	// siblings and children of a failed icon still materialize
	ok, _ := m.FS.DirExists("/out/A/A1")
	req.True(ok)
	ok, _ = m.FS.Exists("/out/B/desktop.ini")
	req.True(ok)
	ok, _ = m.FS.Exists("/out/Blocked/Inner")
	req.False(ok)

	req.Equal([]string{"/out/B"}, report.Iconed)
	req.Len(rec.applied, 1)
	req.Equal(1, rec.invalidated)
}

func TestReservedKeysNeverBecomeFolders(t *testing.T) {
	req := require.New(t)
	m, _ := newTestMaterializer(t)

	doc := decode(t, `{"folders": {"Docs": {"_note": "kept", "_order": [1, 2], "Sub": {}}}}`)
	report := m.Run(doc, "/out")
	req.NoError(report.Err())

	entries, err := m.FS.ReadDir("/out/Docs")
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal("Sub", entries[0].Name())
}

func TestAttributeErrorsAreWarnings(t *testing.T) {
	req := require.New(t)
	m, rec := newTestMaterializer(t)
	rec.applyErr = &apperr.AttributeError{Op: "set hidden+system", Path: "/out/P/desktop.ini", Err: errors.New("denied")}
	writePNG(t, m.FS, "/cfg/p.png")

	report := m.Run(decode(t, `{"folders": {"P": {"_icon": "p.png"}}}`), "/out")
	req.NoError(report.Err())
	req.Len(report.Warnings, 1)
	req.Equal([]string{"/out/P"}, report.Iconed)
}

func TestIconBaseDefaultsToRunBase(t *testing.T) {
	req := require.New(t)
	m, _ := newTestMaterializer(t)
	m.IconBase = ""
	writePNG(t, m.FS, "/out/icons/p.png")

	report := m.Run(decode(t, `{"folders": {"P": {"_icon": "icons\\p.png"}}}`), "/out")
	req.NoError(report.Err())
	ok, _ := m.FS.Exists("/out/P/p.ico")
	req.True(ok)
}

func TestMetadataEncoding(t *testing.T) {
	t.Run("unrepresentable icon name fails the folder", func(t *testing.T) {
		req := require.New(t)
		m, rec := newTestMaterializer(t)
		writePNG(t, m.FS, "/cfg/图标.png")

		report := m.Run(decode(t, `{"folders": {"P": {"_icon": "图标.png"}}}`), "/out")
		stage, failed := report.FailedStage(structure.Path{"P"})
		req.True(failed)
		req.Equal(StageMetadata, stage)
		req.Empty(rec.applied)

		ok, err := m.FS.Exists("/out/P/图标.ico")
		req.NoError(err)
		req.False(ok, "converted icon is removed with the failed metadata")
		ok, err = m.FS.DirExists("/out/P")
		req.NoError(err)
		req.True(ok)
	})

	t.Run("legacy code page", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestMaterializer(t)
		m.Encoding = "gbk"
		writePNG(t, m.FS, "/cfg/图标.png")

		report := m.Run(decode(t, `{"folders": {"P": {"_icon": "图标.png"}}}`), "/out")
		req.NoError(report.Err())

		data, err := m.FS.ReadFile("/out/P/desktop.ini")
		req.NoError(err)
		enc, err := htmlindex.Get("gbk")
		req.NoError(err)
		decoded, err := enc.NewDecoder().Bytes(data)
		req.NoError(err)
		req.Equal(MetadataContent("图标.ico"), string(decoded))
		req.NotEqual(MetadataContent("图标.ico"), string(data))
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := EncodeMetadata("x", "no-such-charset")
		require.Error(t, err)
	})
}

func TestDryRun(t *testing.T) {
	req := require.New(t)
	m, rec := newTestMaterializer(t)
	m.DryRun = true

	doc := decode(t, `{"folders": {"Projects": {"_icon": "missing.png", "2024": {}}}}`)
	report := m.Run(doc, "/out")

	req.True(report.DryRun)
	req.Equal([]string{"/out/Projects", "/out/Projects/2024"}, report.Created)
	stage, _ := report.FailedStage(structure.Path{"Projects"})
	req.Equal(StageIcon, stage)

	ok, _ := m.FS.Exists("/out")
	req.False(ok)
	req.Empty(rec.applied)
	req.Zero(rec.invalidated)
}

func TestUnsafeFolderNames(t *testing.T) {
	req := require.New(t)
	m, _ := newTestMaterializer(t)

	doc := structure.NewDocument()
	up, err := doc.Root.AddChild("..")
	req.NoError(err)
	_, err = up.AddChild("escaped")
	req.NoError(err)
	_, err = doc.Root.AddChild("Safe")
	req.NoError(err)

	report := m.Run(doc, "/out/base")
	stage, _ := report.FailedStage(structure.Path{".."})
	req.Equal(StageFolder, stage)
	ok, _ := m.FS.Exists("/out/escaped")
	req.False(ok)
	ok, _ = m.FS.DirExists("/out/base/Safe")
	req.True(ok)
}
