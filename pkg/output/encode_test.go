package output

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"out.ppm", FormatPPM, false},
		{"render.PNG", FormatPNG, false},
		{"a/b/c.jpg", FormatJPEG, false},
		{"c.jpeg", FormatJPEG, false},
		{"x.bmp", FormatBMP, false},
		{"x.tif", FormatTIFF, false},
		{"x.tiff", FormatTIFF, false},
		{"x.gif", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("Expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatFromPath: %v", err)
			}
			if format != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, format)
			}
		})
	}
}

func gradientFramebuffer(width, height int) *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fb.Pixels[y][x].AddSample(core.NewColor(float64(x)/float64(width), float64(y)/float64(height), 0.5))
		}
	}
	return fb
}

func TestEncodeFormats(t *testing.T) {
	fb := gradientFramebuffer(16, 8)

	decoders := map[Format]func(*bytes.Buffer) (image.Image, error){
		FormatPNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		FormatJPEG: func(b *bytes.Buffer) (image.Image, error) { return jpeg.Decode(b) },
		FormatBMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
		FormatTIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, fb, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img, err := decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
				t.Errorf("Expected 16x8, got %v", img.Bounds())
			}
		})
	}

	t.Run("ppm", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, fb, FormatPPM); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "P3\n16 8\n255\n") {
			t.Errorf("Unexpected PPM header %q", buf.String()[:12])
		}
	})
}

func TestEncodeLosslessPreservesPixels(t *testing.T) {
	fb := gradientFramebuffer(4, 4)
	want := fb.Image()

	for _, format := range []Format{FormatPNG, FormatBMP, FormatTIFF} {
		var buf bytes.Buffer
		if err := Encode(&buf, fb, format); err != nil {
			t.Fatalf("%s: Encode: %v", format, err)
		}
		var got image.Image
		var err error
		switch format {
		case FormatPNG:
			got, err = png.Decode(&buf)
		case FormatBMP:
			got, err = bmp.Decode(&buf)
		case FormatTIFF:
			got, err = tiff.Decode(&buf)
		}
		if err != nil {
			t.Fatalf("%s: decode: %v", format, err)
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				r1, g1, b1, _ := want.At(x, y).RGBA()
				r2, g2, b2, _ := got.At(x, y).RGBA()
				if r1>>8 != r2>>8 || g1>>8 != g2>>8 || b1>>8 != b2>>8 {
					t.Errorf("%s: pixel (%d,%d) changed", format, x, y)
				}
			}
		}
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, renderer.NewFramebuffer(1, 1), Format("gif"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseFormatAliases(t *testing.T) {
	for _, name := range []string{"jpg", "JPEG", ".jpeg"} {
		if f, err := ParseFormat(name); err != nil || f != FormatJPEG {
			t.Errorf("ParseFormat(%q) = %q, %v", name, f, err)
		}
	}
	if len(Formats()) != 5 {
		t.Errorf("Expected 5 formats, got %d", len(Formats()))
	}
}
