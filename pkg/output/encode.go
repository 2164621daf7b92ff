package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/gogpu/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for image formats with no encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Format names an output encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// JPEGQuality is used for all JPEG output
const JPEGQuality = 92

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatPPM, FormatPNG, FormatJPEG, FormatBMP, FormatTIFF}
}

// ParseFormat resolves a format name or common alias ("jpg", "tif")
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%q has no extension: %w", path, ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

// Encode writes fb in the given format
func Encode(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	if format == FormatPPM {
		return WritePPM(w, fb)
	}
	return EncodeImage(w, fb.Image(), format)
}

// EncodeImage writes an already gamma-encoded image. PPM needs the linear
// framebuffer and is written through Encode instead.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		dc := gg.NewContextForImage(img)
		defer dc.Close()
		err = dc.EncodeJPEG(w, JPEGQuality)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("cannot encode %q image: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
