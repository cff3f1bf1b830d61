package gazebo

import (
	"fmt"

	"github.com/agentic-research/sdfpack/api"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// fakeMeshes writes a one-line OBJ and records every call.
type fakeMeshes struct {
	calls []string
	opts  []MeshOptions
	err   error
}

func (f *fakeMeshes) ExportMesh(obj *api.Object, fs billy.Filesystem, dest string, opts MeshOptions) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, dest)
	f.opts = append(f.opts, opts)
	return util.WriteFile(fs, dest+MeshExt, []byte("o "+obj.Name+"\n"), 0o644)
}

// fakeImages writes a marker file per image and counts saves by name.
type fakeImages struct {
	saves map[string]int
}

func newFakeImages() *fakeImages {
	return &fakeImages{saves: make(map[string]int)}
}

func (f *fakeImages) SaveImage(name string, fs billy.Filesystem, dest string) error {
	f.saves[name]++
	return util.WriteFile(fs, dest, []byte("image:"+name), 0o644)
}

// fakeInspector maps object names to base color images.
type fakeInspector map[string]string

func (f fakeInspector) BaseColorImage(obj *api.Object) (string, error) {
	if img, ok := f[obj.Name]; ok && img != "" {
		return img, nil
	}
	return "", fmt.Errorf("%s: %w", obj.Name, ErrMissingTexture)
}

func meshObject(name string) api.Object {
	return api.Object{Name: name, Type: api.ObjectTypeMesh}
}
