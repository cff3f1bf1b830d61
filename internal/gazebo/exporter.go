// Package gazebo assembles Gazebo model packages: model.sdf, model.config,
// per-object meshes and per-object material scripts with their textures.
package gazebo

import (
	"errors"
	"fmt"

	"github.com/agentic-research/sdfpack/api"
	"github.com/agentic-research/sdfpack/internal/pkgwriter"
	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"
)

// Options configure one export.
type Options struct {
	// Root is the package directory. Its parent is the base of model:// URIs.
	Root          string
	Name          string
	Author        string
	AbsolutePaths bool
	// Mesh is passed to the MeshExporter. A zero value means DefaultMeshOptions.
	Mesh   MeshOptions
	Logger *log.Logger
}

// Result summarizes a finished export.
type Result struct {
	Root       string
	Name       string
	SDFPath    string
	ConfigPath string
	// Links in document order.
	Links []string
	// ImagesWritten and ImagesSkipped are disjoint and in first-use order.
	ImagesWritten []string
	ImagesSkipped []string
	// Untextured objects got a material without texture.
	Untextured []string
	// Ignored objects are not meshes.
	Ignored []string
}

// Exporter runs the export pipeline. It holds no state between calls to Export.
type Exporter struct {
	fs        billy.Filesystem
	opts      Options
	meshes    MeshExporter
	images    ImageEncoder
	inspector SceneInspector
	log       *log.Logger
}

func NewExporter(fs billy.Filesystem, opts Options, meshes MeshExporter, images ImageEncoder, inspector SceneInspector) *Exporter {
	if opts.Mesh == (MeshOptions{}) {
		opts.Mesh = DefaultMeshOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{
		fs:        fs,
		opts:      opts,
		meshes:    meshes,
		images:    images,
		inspector: inspector,
		log:       logger,
	}
}

// Export writes the package for objects, in order. Names are checked before
// anything touches the disk. Any other failure aborts the export and leaves
// files written so far in place; running the export again repairs them.
func (e *Exporter) Export(objects []api.Object) (*Result, error) {
	meshes, ignored, err := selectMeshes(objects)
	if err != nil {
		return nil, err
	}

	pkg, err := NewPackage(e.fs, e.opts.Root, PackageOptions{
		Name:          e.opts.Name,
		Author:        e.opts.Author,
		AbsolutePaths: e.opts.AbsolutePaths,
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("exporting model", "name", pkg.Name, "root", pkg.Root, "objects", len(meshes))

	res := &Result{
		Root:       pkg.Root,
		Name:       pkg.Name,
		SDFPath:    pkg.SDFPath(),
		ConfigPath: pkg.ConfigPath(),
		Ignored:    ignored,
	}
	materials := NewMaterialEmitter(pkg, e.images, e.log)
	model := NewModelBuilder(pkg.Name)

	for _, obj := range meshes {
		link, textured, err := e.exportObject(pkg, materials, obj)
		if err != nil {
			return nil, err
		}
		if err := model.Add(link); err != nil {
			return nil, err
		}
		res.Links = append(res.Links, link.Name)
		if !textured {
			res.Untextured = append(res.Untextured, obj.Name)
		}
	}

	if err := pkgwriter.WritePrettyXML(e.fs, model.Finalize(), pkg.SDFPath()); err != nil {
		return nil, err
	}
	if err := pkgwriter.WritePrettyXML(e.fs, BuildConfig(pkg.Name, SDFFilename, pkg.Author), pkg.ConfigPath()); err != nil {
		return nil, err
	}

	res.ImagesWritten = materials.Written()
	res.ImagesSkipped = materials.Skipped()
	e.log.Info("export complete",
		"links", len(res.Links),
		"textures_written", len(res.ImagesWritten),
		"textures_skipped", len(res.ImagesSkipped),
		"untextured", len(res.Untextured))
	return res, nil
}

func (e *Exporter) exportObject(pkg *Package, materials *MaterialEmitter, obj *api.Object) (Link, bool, error) {
	meshPath := pkg.MeshPath(obj.Name)
	if err := e.meshes.ExportMesh(obj, e.fs, meshPath, e.opts.Mesh); err != nil {
		return Link{}, false, fmt.Errorf("export mesh %s: %w", obj.Name, err)
	}
	meshURI, err := pkg.URI(meshPath + MeshExt)
	if err != nil {
		return Link{}, false, err
	}

	image, err := e.inspector.BaseColorImage(obj)
	if err != nil {
		if !errors.Is(err, ErrMissingTexture) {
			return Link{}, false, fmt.Errorf("inspect %s: %w", obj.Name, err)
		}
		e.log.Warn("no base color image, material has no texture", "object", obj.Name)
		image = ""
	}

	scriptPath, err := materials.Emit(obj.Name, image)
	if err != nil {
		return Link{}, false, fmt.Errorf("material %s: %w", obj.Name, err)
	}
	materialURI, err := pkg.URI(scriptPath)
	if err != nil {
		return Link{}, false, err
	}

	e.log.Debug("built link", "object", obj.Name, "mesh", meshURI)
	return BuildLink(obj.Name, meshURI, materialURI), image != "", nil
}

// selectMeshes keeps mesh objects in order and rejects invalid or duplicate names.
func selectMeshes(objects []api.Object) ([]*api.Object, []string, error) {
	var (
		meshes  []*api.Object
		ignored []string
	)
	seen := make(map[string]struct{}, len(objects))
	for i := range objects {
		obj := &objects[i]
		if !obj.IsMesh() {
			ignored = append(ignored, obj.Name)
			continue
		}
		if err := ValidName(obj.Name); err != nil {
			return nil, nil, fmt.Errorf("object %d: %w", i, err)
		}
		if _, dup := seen[obj.Name]; dup {
			return nil, nil, fmt.Errorf("%w: %q", ErrNameCollision, obj.Name)
		}
		seen[obj.Name] = struct{}{}
		meshes = append(meshes, obj)
	}
	return meshes, ignored, nil
}
