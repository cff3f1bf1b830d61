package gazebo

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMaterial(t *testing.T) {
	expected := `material ObjA
{
  technique
  {
    pass
    {
      cull_hardware none
      cull_software none

      texture_unit
      {
        texture tex1.png
      }
    }
  }
}

`
	assert.Equal(t, expected, string(RenderMaterial("ObjA", "tex1.png")))
}

func TestRenderMaterial_NoTexture(t *testing.T) {
	got := string(RenderMaterial("ObjC", ""))
	assert.Contains(t, got, "material ObjC\n")
	assert.Contains(t, got, "texture_unit\n      {\n      }\n")
	assert.NotContains(t, got, "texture ")
}

func newTestEmitter(t *testing.T) (*MaterialEmitter, *Package, *fakeImages) {
	t.Helper()
	fs := memfs.New()
	pkg, err := NewPackage(fs, "/out/cornfield", PackageOptions{})
	require.NoError(t, err)
	images := newFakeImages()
	return NewMaterialEmitter(pkg, images, log.New(io.Discard)), pkg, images
}

func TestMaterialEmitter_TextureWrittenOnce(t *testing.T) {
	m, pkg, images := newTestEmitter(t)

	pathA, err := m.Emit("ObjA", "tex1.png")
	require.NoError(t, err)
	pathB, err := m.Emit("ObjB", "tex1.png")
	require.NoError(t, err)

	assert.Equal(t, "/out/cornfield/materials/ObjA.material", pathA)
	assert.Equal(t, "/out/cornfield/materials/ObjB.material", pathB)
	assert.Equal(t, 1, images.saves["tex1.png"])
	assert.Equal(t, []string{"tex1.png"}, m.Written())
	assert.Empty(t, m.Skipped())

	data, err := util.ReadFile(pkg.fs, pkg.ImagePath("tex1.png"))
	require.NoError(t, err)
	assert.Equal(t, "image:tex1.png", string(data))
}

func TestMaterialEmitter_ExistingTextureKept(t *testing.T) {
	m, pkg, images := newTestEmitter(t)
	require.NoError(t, util.WriteFile(pkg.fs, pkg.ImagePath("tex1.png"), []byte("old pixels"), 0o644))

	_, err := m.Emit("ObjA", "tex1.png")
	require.NoError(t, err)
	_, err = m.Emit("ObjB", "tex1.png")
	require.NoError(t, err)

	assert.Zero(t, images.saves["tex1.png"], "an existing texture is never rewritten")
	assert.Equal(t, []string{"tex1.png"}, m.Skipped())
	assert.Empty(t, m.Written())

	data, err := util.ReadFile(pkg.fs, pkg.ImagePath("tex1.png"))
	require.NoError(t, err)
	assert.Equal(t, "old pixels", string(data))
}

func TestMaterialEmitter_NoTexture(t *testing.T) {
	m, pkg, images := newTestEmitter(t)

	path, err := m.Emit("ObjC", "")
	require.NoError(t, err)
	assert.Empty(t, images.saves)

	data, err := util.ReadFile(pkg.fs, path)
	require.NoError(t, err)
	assert.Equal(t, string(RenderMaterial("ObjC", "")), string(data))
}

func TestMaterialEmitter_OverwritesScript(t *testing.T) {
	m, pkg, _ := newTestEmitter(t)
	require.NoError(t, util.WriteFile(pkg.fs, pkg.MaterialPath("ObjA"), []byte("stale content that is much longer than needed\n"), 0o644))

	path, err := m.Emit("ObjA", "tex1.png")
	require.NoError(t, err)

	data, err := util.ReadFile(pkg.fs, path)
	require.NoError(t, err)
	assert.Equal(t, string(RenderMaterial("ObjA", "tex1.png")), string(data))
}

func TestMaterialEmitter_InvalidImageName(t *testing.T) {
	m, _, images := newTestEmitter(t)

	_, err := m.Emit("ObjA", "../escape.png")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, images.saves)
}
