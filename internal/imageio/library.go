// Package imageio encodes scene images into texture files.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/agentic-research/sdfpack/internal/pkgwriter"
	"github.com/anthonynsimon/bild/transform"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnknownImage      = errors.New("unknown image")
	ErrNotImage          = errors.New("source is not an image")
	ErrUnsupportedFormat = errors.New("unsupported texture format")
)

const jpegQuality = 95

// Library resolves image names to source files and implements gazebo.ImageEncoder.
type Library struct {
	Sources billy.Filesystem
	// Images maps an image name to its source path on Sources.
	Images map[string]string
	// MaxSize bounds the longest texture edge in pixels. Zero keeps the source size.
	MaxSize int
}

// SaveImage writes the named image to dest. The output format follows dest's
// extension; an extension that names no image format (corn.001, or none at
// all) keeps the source format. A source already in the output format and
// within MaxSize is copied unchanged.
func (l *Library) SaveImage(name string, fs billy.Filesystem, dest string) error {
	src, ok := l.Images[name]
	if !ok || src == "" {
		return fmt.Errorf("%w: %q", ErrUnknownImage, name)
	}
	data, err := util.ReadFile(l.Sources, src)
	if err != nil {
		return fmt.Errorf("read image source: %w", err)
	}
	if err := sniff(src, data); err != nil {
		return err
	}

	img, srcFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}
	format, err := OutputFormat(dest, srcFormat)
	if err != nil {
		return err
	}

	fitted, resized := l.fit(img)
	if format == srcFormat && (!resized || !encodable(format)) {
		// WebP has no encoder; an oversized WebP source is kept at its size.
		return pkgwriter.WriteFile(fs, dest, data)
	}

	var buf bytes.Buffer
	if err := encode(&buf, fitted, format); err != nil {
		return fmt.Errorf("encode %s: %w", dest, err)
	}
	return pkgwriter.WriteFile(fs, dest, buf.Bytes())
}

// Check reports whether data can be saved as the texture dest without
// failing, the same way SaveImage would decide.
func Check(dest string, data []byte) error {
	if err := sniff(dest, data); err != nil {
		return err
	}
	_, srcFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", dest, err)
	}
	_, err = OutputFormat(dest, srcFormat)
	return err
}

// OutputFormat picks the format a texture named dest is written in, given
// the format of its source.
func OutputFormat(dest, srcFormat string) (string, error) {
	format, ok := extFormats[strings.ToLower(filepath.Ext(dest))]
	if !ok {
		return srcFormat, nil
	}
	if format != srcFormat && !encodable(format) {
		return "", fmt.Errorf("%w: cannot convert %s to %s", ErrUnsupportedFormat, srcFormat, format)
	}
	return format, nil
}

func sniff(src string, data []byte) error {
	if !filetype.IsImage(data) {
		return fmt.Errorf("%w: %s", ErrNotImage, src)
	}
	return nil
}

// fit downsizes img so its longest edge is at most MaxSize, keeping the aspect ratio.
func (l *Library) fit(img image.Image) (image.Image, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if l.MaxSize <= 0 || longest <= l.MaxSize {
		return img, false
	}
	scale := float64(l.MaxSize) / float64(longest)
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	return transform.Resize(img, nw, nh, transform.Linear), true
}

var extFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

func encodable(format string) bool {
	return format != "webp"
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
}
