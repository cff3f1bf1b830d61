package gazebo

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentic-research/sdfpack/internal/pkgwriter"
	"github.com/charmbracelet/log"
)

// materialTemplate is an Ogre material with a single texture unit and culling
// disabled both ways, so back faces stay visible in simulation.
const materialTemplate = `material %s
{
  technique
  {
    pass
    {
      cull_hardware none
      cull_software none

      texture_unit
      {
%s      }
    }
  }
}

`

// RenderMaterial returns the material script for an object. An empty image
// leaves the texture unit without a texture directive.
func RenderMaterial(name, image string) []byte {
	var texture string
	if image != "" {
		texture = "        texture " + image + "\n"
	}
	return []byte(fmt.Sprintf(materialTemplate, name, texture))
}

// MaterialEmitter writes material scripts and the textures they reference.
// Textures are written once per name: an image file already present in the
// materials directory is never rewritten, even if its source changed.
type MaterialEmitter struct {
	pkg    *Package
	images ImageEncoder
	log    *log.Logger

	seen    map[string]struct{}
	written []string
	skipped []string
}

func NewMaterialEmitter(pkg *Package, images ImageEncoder, logger *log.Logger) *MaterialEmitter {
	if logger == nil {
		logger = log.Default()
	}
	return &MaterialEmitter{
		pkg:    pkg,
		images: images,
		log:    logger,
		seen:   make(map[string]struct{}),
	}
}

// Emit writes materials/<object>.material, exporting image first when needed,
// and returns the script path. The script is overwritten on every call.
func (m *MaterialEmitter) Emit(object, image string) (string, error) {
	if image != "" {
		if err := m.exportImage(image); err != nil {
			return "", err
		}
	}

	path := m.pkg.MaterialPath(object)
	if err := pkgwriter.WriteFile(m.pkg.fs, path, RenderMaterial(object, image)); err != nil {
		return "", err
	}
	m.log.Debug("wrote material", "object", object, "path", path)
	return path, nil
}

// Written lists images written by this emitter, in first-use order.
func (m *MaterialEmitter) Written() []string { return m.written }

// Skipped lists images that already existed on disk before their first use.
func (m *MaterialEmitter) Skipped() []string { return m.skipped }

func (m *MaterialEmitter) exportImage(name string) error {
	if err := ValidName(name); err != nil {
		return fmt.Errorf("texture: %w", err)
	}

	path := m.pkg.ImagePath(name)
	_, err := m.pkg.fs.Stat(path)
	switch {
	case err == nil:
		if _, ok := m.seen[name]; !ok {
			m.seen[name] = struct{}{}
			m.skipped = append(m.skipped, name)
			m.log.Debug("texture exists, not rewritten", "image", name)
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := m.images.SaveImage(name, m.pkg.fs, path); err != nil {
		return fmt.Errorf("save texture %s: %w", name, err)
	}
	m.seen[name] = struct{}{}
	m.written = append(m.written, name)
	m.log.Info("wrote texture", "image", name, "path", path)
	return nil
}
