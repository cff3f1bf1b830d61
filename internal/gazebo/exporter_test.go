package gazebo

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/agentic-research/sdfpack/api"
	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uriPattern = regexp.MustCompile(`<uri>([^<]*)</uri>`)

type exportFixture struct {
	fs        billy.Filesystem
	meshes    *fakeMeshes
	images    *fakeImages
	inspector fakeInspector
}

func newExportFixture(fs billy.Filesystem) *exportFixture {
	return &exportFixture{
		fs:     fs,
		meshes: &fakeMeshes{},
		images: newFakeImages(),
		inspector: fakeInspector{
			"ObjA": "tex1.png",
			"ObjB": "tex1.png",
		},
	}
}

func (f *exportFixture) exporter(opts Options) *Exporter {
	opts.Logger = log.New(io.Discard)
	return NewExporter(f.fs, opts, f.meshes, f.images, f.inspector)
}

func cornfield() []api.Object {
	return []api.Object{meshObject("ObjA"), meshObject("ObjB"), meshObject("ObjC")}
}

func readFile(t *testing.T, fs billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fs, path)
	require.NoError(t, err, path)
	return string(data)
}

func TestExport_Cornfield(t *testing.T) {
	f := newExportFixture(memfs.New())

	res, err := f.exporter(Options{Root: "/out/cornfield"}).Export(cornfield())
	require.NoError(t, err)

	// 1. Meshes, one per object, in order
	assert.Equal(t, []string{
		"/out/cornfield/meshes/ObjA",
		"/out/cornfield/meshes/ObjB",
		"/out/cornfield/meshes/ObjC",
	}, f.meshes.calls)
	for _, opts := range f.meshes.opts {
		assert.Equal(t, DefaultMeshOptions(), opts)
	}

	// 2. Shared texture written once
	assert.Equal(t, map[string]int{"tex1.png": 1}, f.images.saves)
	assert.Equal(t, []string{"tex1.png"}, res.ImagesWritten)
	assert.Equal(t, []string{"ObjC"}, res.Untextured)

	// 3. Material scripts, ObjC without texture
	for _, name := range []string{"ObjA", "ObjB"} {
		assert.Equal(t, string(RenderMaterial(name, "tex1.png")), readFile(t, f.fs, "/out/cornfield/materials/"+name+".material"))
	}
	assert.Equal(t, string(RenderMaterial("ObjC", "")), readFile(t, f.fs, "/out/cornfield/materials/ObjC.material"))

	// 4. model.sdf links in order, visual and collision share the mesh
	var sdf SDF
	require.NoError(t, xml.Unmarshal([]byte(readFile(t, f.fs, res.SDFPath)), &sdf))
	assert.Equal(t, "1.7", sdf.Version)
	assert.Equal(t, "cornfield", sdf.Model.Name)
	assert.True(t, sdf.Model.Static)
	require.Len(t, sdf.Model.Links, 3)
	for i, name := range []string{"ObjA", "ObjB", "ObjC"} {
		link := sdf.Model.Links[i]
		assert.Equal(t, name, link.Name)
		assert.Equal(t, "model://cornfield/meshes/"+name+".obj", link.Visual.Geometry.Mesh.URI)
		assert.Equal(t, link.Visual.Geometry.Mesh.URI, link.Collision.Geometry.Mesh.URI)
		assert.Equal(t, "model://cornfield/materials/"+name+".material", link.Visual.Material.Script.URI)
		assert.Equal(t, name, link.Visual.Material.Script.Name)
	}
	assert.Equal(t, []string{"ObjA", "ObjB", "ObjC"}, res.Links)

	// 5. model.config points at model.sdf
	var cfg ModelConfig
	require.NoError(t, xml.Unmarshal([]byte(readFile(t, f.fs, res.ConfigPath)), &cfg))
	assert.Equal(t, "cornfield", cfg.Name)
	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, SchemaVersion, cfg.SDF.Version)
	assert.Equal(t, filepath.Base(res.SDFPath), cfg.SDF.Filename)
	assert.Equal(t, DefaultAuthor, cfg.Author.Name)
}

func TestExport_PrettyPrinted(t *testing.T) {
	f := newExportFixture(memfs.New())
	res, err := f.exporter(Options{Root: "/out/m", Author: "me"}).Export([]api.Object{meshObject("ObjA")})
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<model>
  <name>m</name>
  <version>1.0</version>
  <sdf sdf="1.7">model.sdf</sdf>
  <author>
    <name>me</name>
  </author>
</model>
`
	assert.Equal(t, expected, readFile(t, f.fs, res.ConfigPath))

	sdf := readFile(t, f.fs, res.SDFPath)
	assert.True(t, strings.HasPrefix(sdf, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<sdf version=\"1.7\">\n  <model name=\"m\">\n    <static>true</static>\n    <link name=\"ObjA\">\n"), sdf)
	assert.Contains(t, sdf, "\n          <contact>\n            <collide_without_contact>true</collide_without_contact>\n")
}

func TestExport_Idempotent(t *testing.T) {
	f := newExportFixture(memfs.New())
	exp := f.exporter(Options{Root: "/out/cornfield"})

	first, err := exp.Export(cornfield())
	require.NoError(t, err)
	sdf1 := readFile(t, f.fs, first.SDFPath)
	cfg1 := readFile(t, f.fs, first.ConfigPath)

	second, err := exp.Export(cornfield())
	require.NoError(t, err)
	assert.Equal(t, sdf1, readFile(t, f.fs, second.SDFPath))
	assert.Equal(t, cfg1, readFile(t, f.fs, second.ConfigPath))

	assert.Equal(t, 1, f.images.saves["tex1.png"], "second run finds the texture on disk")
	assert.Empty(t, second.ImagesWritten)
	assert.Equal(t, []string{"tex1.png"}, second.ImagesSkipped)
}

func TestExport_URISchemes(t *testing.T) {
	t.Run("relative", func(t *testing.T) {
		f := newExportFixture(memfs.New())
		res, err := f.exporter(Options{Root: "/out/cornfield"}).Export(cornfield())
		require.NoError(t, err)

		uris := uriPattern.FindAllStringSubmatch(readFile(t, f.fs, res.SDFPath), -1)
		require.Len(t, uris, 9, "two mesh URIs and one material URI per link")
		for _, m := range uris {
			assert.True(t, strings.HasPrefix(m[1], URIScheme), m[1])
			assert.NotContains(t, m[1], "/out/")
		}
	})

	t.Run("absolute", func(t *testing.T) {
		f := newExportFixture(memfs.New())
		res, err := f.exporter(Options{Root: "/out/cornfield", AbsolutePaths: true}).Export(cornfield())
		require.NoError(t, err)

		uris := uriPattern.FindAllStringSubmatch(readFile(t, f.fs, res.SDFPath), -1)
		require.Len(t, uris, 9)
		for _, m := range uris {
			assert.True(t, filepath.IsAbs(m[1]), m[1])
			assert.True(t, strings.HasPrefix(m[1], "/out/cornfield/"), m[1])
		}
	})
}

func TestExport_NameCollision(t *testing.T) {
	f := newExportFixture(memfs.New())
	objects := []api.Object{meshObject("ObjA"), meshObject("ObjB"), meshObject("ObjA")}

	_, err := f.exporter(Options{Root: "/out/cornfield"}).Export(objects)
	assert.ErrorIs(t, err, ErrNameCollision)
	assert.Empty(t, f.meshes.calls, "collisions are detected before any write")

	_, statErr := f.fs.Stat("/out/cornfield")
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestExport_InvalidObjectName(t *testing.T) {
	f := newExportFixture(memfs.New())
	_, err := f.exporter(Options{Root: "/out/m"}).Export([]api.Object{meshObject("a/b")})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestExport_IgnoresNonMeshObjects(t *testing.T) {
	f := newExportFixture(memfs.New())
	objects := []api.Object{
		meshObject("ObjA"),
		{Name: "Sun", Type: "LIGHT"},
		{Name: "ObjA", Type: "CAMERA"}, // same name, not exported: no collision
		{Name: "Untyped"},
	}

	res, err := f.exporter(Options{Root: "/out/m"}).Export(objects)
	require.NoError(t, err)
	assert.Equal(t, []string{"ObjA", "Untyped"}, res.Links)
	assert.Equal(t, []string{"Sun", "ObjA"}, res.Ignored)
}

func TestExport_MeshFailureAborts(t *testing.T) {
	f := newExportFixture(memfs.New())
	f.meshes.err = os.ErrPermission

	_, err := f.exporter(Options{Root: "/out/m"}).Export(cornfield())
	assert.ErrorIs(t, err, os.ErrPermission, "IO failures surface verbatim")

	_, statErr := f.fs.Stat("/out/m/model.sdf")
	assert.Error(t, statErr, "documents are only written after every object succeeded")
}

type brokenInspector struct{}

func (brokenInspector) BaseColorImage(*api.Object) (string, error) {
	return "", errors.New("scene unavailable")
}

func TestExport_InspectorFailureAborts(t *testing.T) {
	f := newExportFixture(memfs.New())
	exp := NewExporter(f.fs, Options{Root: "/out/m", Logger: log.New(io.Discard)}, f.meshes, f.images, brokenInspector{})

	_, err := exp.Export(cornfield())
	assert.ErrorContains(t, err, "scene unavailable")
}

func TestExport_CustomMeshOptions(t *testing.T) {
	f := newExportFixture(memfs.New())
	opts := MeshOptions{UpAxis: "Y", ForwardAxis: "-Z", ApplyModifiers: false, ExportMaterials: true}

	_, err := f.exporter(Options{Root: "/out/m", Mesh: opts}).Export([]api.Object{meshObject("ObjA")})
	require.NoError(t, err)
	assert.Equal(t, []MeshOptions{opts}, f.meshes.opts)
}

func TestExport_TextureModTimeStable(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "cornfield")
	f := newExportFixture(osfs.New("/"))
	exp := f.exporter(Options{Root: root})

	_, err := exp.Export(cornfield())
	require.NoError(t, err)

	texture := filepath.Join(root, MaterialsDir, "tex1.png")
	past := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(texture, past, past))

	_, err = exp.Export(cornfield())
	require.NoError(t, err)

	fi, err := os.Stat(texture)
	require.NoError(t, err)
	assert.True(t, fi.ModTime().Equal(past), "texture must not be rewritten on re-export")
	assert.Equal(t, 1, f.images.saves["tex1.png"])
}
