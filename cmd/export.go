package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/agentic-research/sdfpack/internal/bundle"
	"github.com/agentic-research/sdfpack/internal/config"
	"github.com/agentic-research/sdfpack/internal/gazebo"
	"github.com/agentic-research/sdfpack/internal/imageio"
	"github.com/agentic-research/sdfpack/internal/ingest"
	"github.com/agentic-research/sdfpack/internal/objmesh"
	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"
	"github.com/spf13/cobra"
)

var ErrNothingSelected = errors.New("selector matched no objects")

var (
	scenePath      string
	outDir         string
	modelName      string
	modelAuthor    string
	absolutePaths  bool
	collectionName string
	selectorExpr   string
	archivePath    string
	maxTextureSize int
	upAxis         string
	forwardAxis    string
)

// exportJob is one fully resolved export: where to read, where to write and how.
type exportJob struct {
	Scene    string
	Out      string
	Selector string
	// Archive, when set, is bundled from Out after a successful export.
	Archive string
	Config  *config.Config
}

func init() {
	addExportFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

// addExportFlags registers the flags shared by export and watch.
func addExportFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&scenePath, "scene", "s", "", "Path to the scene JSON file")
	f.StringVarP(&outDir, "out", "o", "", "Model package directory to write")
	f.StringVarP(&modelName, "name", "n", "", "Model name (default: base name of --out)")
	f.StringVar(&modelAuthor, "author", "", "Author written to model.config")
	f.BoolVar(&absolutePaths, "absolute-paths", false, "Reference meshes and materials by absolute path instead of model://")
	f.StringVar(&collectionName, "collection", "", "Export only the named collection")
	f.StringVar(&selectorExpr, "select", "", "JSONPath selector for the objects to export")
	f.StringVar(&archivePath, "archive", "", "Also bundle the package into a .zip, .tar or .tar.gz file")
	f.IntVar(&maxTextureSize, "max-texture-size", 0, "Downsize textures so the longest edge fits (0 keeps source size)")
	f.StringVar(&upAxis, "up-axis", "", "Mesh up axis (X, Y, Z, -X, -Y, -Z)")
	f.StringVar(&forwardAxis, "forward-axis", "", "Mesh forward axis")
	_ = cmd.MarkFlagRequired("scene")
	_ = cmd.MarkFlagRequired("out")
	cmd.MarkFlagsMutuallyExclusive("collection", "select")
}

// resolveJob merges the config file with the flags that were set on cmd.
func resolveJob(cmd *cobra.Command) (exportJob, error) {
	cfg, err := loadConfig()
	if err != nil {
		return exportJob{}, err
	}

	f := cmd.Flags()
	if f.Changed("name") {
		cfg.Model.Name = modelName
	}
	if f.Changed("author") {
		cfg.Model.Author = modelAuthor
	}
	if f.Changed("absolute-paths") {
		cfg.Model.AbsolutePaths = absolutePaths
	}
	if f.Changed("max-texture-size") {
		cfg.Texture.MaxSize = maxTextureSize
	}
	if f.Changed("up-axis") {
		cfg.Mesh.UpAxis = upAxis
	}
	if f.Changed("forward-axis") {
		cfg.Mesh.ForwardAxis = forwardAxis
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return exportJob{}, err
	}

	selector, err := selectorFor(collectionName, selectorExpr)
	if err != nil {
		return exportJob{}, err
	}
	return newJob(scenePath, outDir, selector, archivePath, cfg)
}

func newJob(scene, out, selector, archive string, cfg *config.Config) (exportJob, error) {
	var err error
	if scene, err = filepath.Abs(scene); err != nil {
		return exportJob{}, err
	}
	if out, err = filepath.Abs(out); err != nil {
		return exportJob{}, err
	}
	if archive != "" {
		if archive, err = filepath.Abs(archive); err != nil {
			return exportJob{}, err
		}
	}
	return exportJob{Scene: scene, Out: out, Selector: selector, Archive: archive, Config: cfg}, nil
}

func selectorFor(collection, selector string) (string, error) {
	switch {
	case collection != "":
		return ingest.CollectionSelector(collection)
	case selector != "":
		return selector, nil
	}
	return ingest.DefaultSelector, nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scene objects as a Gazebo model package",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := resolveJob(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, job.Config)
		if err != nil {
			return err
		}

		res, err := runExport(cmd.Context(), hostFS, job, logger)
		if err != nil {
			return err
		}
		printResult(cmd, res, job)
		return nil
	},
}

// runExport loads the scene, exports the selected objects and bundles the
// package when an archive is requested.
func runExport(ctx context.Context, fs billy.Filesystem, job exportJob, logger *log.Logger) (*gazebo.Result, error) {
	scene, err := ingest.LoadScene(fs, job.Scene)
	if err != nil {
		return nil, err
	}
	objects, err := scene.Select(job.Selector)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingSelected, job.Selector)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := job.Config
	exporter := gazebo.NewExporter(fs,
		gazebo.Options{
			Root:          job.Out,
			Name:          cfg.Model.Name,
			Author:        cfg.Model.Author,
			AbsolutePaths: cfg.Model.AbsolutePaths,
			Mesh:          cfg.MeshOptions(),
			Logger:        logger,
		},
		&objmesh.Exporter{Sources: fs, BaseDir: filepath.Dir(scene.Path)},
		&imageio.Library{Sources: fs, Images: scene.ImageSources(), MaxSize: cfg.Texture.MaxSize},
		ingest.NewInspector(&scene.Scene),
	)
	res, err := exporter.Export(objects)
	if err != nil {
		return nil, err
	}

	if job.Archive != "" {
		if err := bundle.Archive(ctx, res.Root, job.Archive); err != nil {
			return nil, err
		}
		logger.Info("bundled package", "archive", job.Archive)
	}
	return res, nil
}

func printResult(cmd *cobra.Command, res *gazebo.Result, job exportJob) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Exported model %q to %s\n", res.Name, res.Root)
	_, _ = fmt.Fprintf(w, "  links:    %d\n", len(res.Links))
	_, _ = fmt.Fprintf(w, "  textures: %d written, %d kept\n", len(res.ImagesWritten), len(res.ImagesSkipped))
	if len(res.Untextured) > 0 {
		_, _ = fmt.Fprintf(w, "  untextured: %v\n", res.Untextured)
	}
	if len(res.Ignored) > 0 {
		_, _ = fmt.Fprintf(w, "  ignored (not meshes): %v\n", res.Ignored)
	}
	if job.Archive != "" {
		_, _ = fmt.Fprintf(w, "  archive:  %s\n", job.Archive)
	}
}
