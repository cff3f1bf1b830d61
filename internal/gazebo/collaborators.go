package gazebo

import (
	"github.com/agentic-research/sdfpack/api"
	billy "github.com/go-git/go-billy/v5"
)

// MeshOptions are forwarded untouched to the MeshExporter.
type MeshOptions struct {
	UpAxis          string
	ForwardAxis     string
	ApplyModifiers  bool
	ExportMaterials bool
}

// DefaultMeshOptions returns Z up, Y forward, modifiers applied, no materials in the mesh file.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{
		UpAxis:          "Z",
		ForwardAxis:     "Y",
		ApplyModifiers:  true,
		ExportMaterials: false,
	}
}

// MeshExporter encodes one object's geometry.
type MeshExporter interface {
	// ExportMesh writes dest+MeshExt. dest carries no extension.
	ExportMesh(obj *api.Object, fs billy.Filesystem, dest string, opts MeshOptions) error
}

// ImageEncoder writes the raster image known by name to dest.
type ImageEncoder interface {
	SaveImage(name string, fs billy.Filesystem, dest string) error
}

// SceneInspector resolves scene data the exporter does not traverse itself.
type SceneInspector interface {
	// BaseColorImage returns the name of the image feeding the object's base color,
	// or ErrMissingTexture.
	BaseColorImage(obj *api.Object) (string, error)
}
