package analysis

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

func TestPlotImageDimensions(t *testing.T) {
	img := PlotImage(signal.Signal{1, 2, 3}, 100, 40)
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 40 {
		t.Errorf("Bounds = %dx%d, expected 100x40", b.Dx(), b.Dy())
	}

	img = PlotImage(signal.Signal{1}, 0, 0)
	b = img.Bounds()
	if b.Dx() != DefaultPlotWidth || b.Dy() != DefaultPlotHeight {
		t.Errorf("Default bounds = %dx%d, expected %dx%d",
			b.Dx(), b.Dy(), DefaultPlotWidth, DefaultPlotHeight)
	}
}

// TestPlotImageTracePlacement pins down the vertical mapping: +peak at
// the top edge, -peak at the bottom edge, zero on the center row.
func TestPlotImageTracePlacement(t *testing.T) {
	img := PlotImage(signal.Signal{0, 1, 0, -1}, 4, 64)

	if img.RGBAAt(1, 0) != plotTrace {
		t.Error("Positive peak did not reach the top row")
	}
	if img.RGBAAt(3, 63) != plotTrace {
		t.Error("Negative peak did not reach the bottom row")
	}
	if img.RGBAAt(0, 31) != plotTrace {
		t.Error("Zero sample did not land on the center row")
	}
}

func TestPlotImageEmptySignal(t *testing.T) {
	img := PlotImage(nil, 16, 16)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if img.RGBAAt(x, y) == plotTrace {
				t.Fatalf("Empty signal drew a trace pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestPlotImageFlatSignal(t *testing.T) {
	// All-zero input must not divide by zero while scaling.
	img := PlotImage(signal.Signal{0, 0, 0, 0}, 8, 8)
	if img == nil {
		t.Fatal("Expected an image for a flat signal")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.png")
	img := PlotImage(signal.Signal{0, 0.5, -0.5, 1}, 32, 16)

	if err := SavePNG(img, path); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen PNG: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Saved file is not a valid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 32 || decoded.Bounds().Dy() != 16 {
		t.Errorf("Decoded bounds = %v, expected 32x16", decoded.Bounds())
	}
}

func TestSavePNGBadPath(t *testing.T) {
	img := PlotImage(signal.Signal{1}, 8, 8)
	if err := SavePNG(img, filepath.Join(t.TempDir(), "missing", "plot.png")); err == nil {
		t.Error("Expected error for nonexistent directory")
	}
}
