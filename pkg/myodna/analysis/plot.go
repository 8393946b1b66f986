package analysis

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Tunables
const (
	DefaultPlotWidth  = 1024
	DefaultPlotHeight = 256
)

var (
	plotBackground = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	plotMidline    = color.RGBA{R: 64, G: 64, B: 80, A: 255}
	plotTrace      = color.RGBA{R: 64, G: 220, B: 128, A: 255}
)

// PlotImage renders the signal as a waveform image. Each pixel column
// covers a slice of the signal and is drawn as a vertical span from
// that slice's minimum to its maximum amplitude, so long recordings
// stay readable at any width.
func PlotImage(sig signal.Signal, width, height int) *image.RGBA {
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, plotBackground)
		}
	}

	mid := height / 2
	for x := 0; x < width; x++ {
		img.SetRGBA(x, mid, plotMidline)
	}

	if len(sig) == 0 {
		return img
	}

	// Scale against the largest magnitude so every plot fills the
	// vertical range. A flat signal keeps scale 1 and draws on the
	// midline.
	peak := 0.0
	for _, v := range sig {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}

	samplesPerColumn := float64(len(sig)) / float64(width)
	for x := 0; x < width; x++ {
		start := int(float64(x) * samplesPerColumn)
		end := int(float64(x+1) * samplesPerColumn)
		if end <= start {
			end = start + 1
		}
		if end > len(sig) {
			end = len(sig)
		}
		if start >= len(sig) {
			break
		}

		lo, hi := sig[start], sig[start]
		for _, v := range sig[start:end] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}

		yTop := amplitudeToY(hi, peak, height)
		yBottom := amplitudeToY(lo, peak, height)
		for y := yTop; y <= yBottom; y++ {
			img.SetRGBA(x, y, plotTrace)
		}
	}
	return img
}

// SavePNG writes the image to path as a PNG.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// amplitudeToY maps an amplitude in [-peak, peak] to a pixel row, with
// +peak at the top edge.
func amplitudeToY(v, peak float64, height int) int {
	norm := v / peak
	y := int((1 - norm) / 2 * float64(height-1))
	if y < 0 {
		y = 0
	}
	if y > height-1 {
		y = height - 1
	}
	return y
}
