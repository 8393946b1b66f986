package main

import (
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/eligwz/spectrogram"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/analysis"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Armband capture rate assumed for the frequency axis.
const sampleRate = 200

func main() {
	inputDir := "myodna_data"
	outputDir := "myodna_plots"

	if root := os.Getenv("MYO_DATA_ROOT"); root != "" {
		inputDir = root
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal(err)
	}

	// Concatenated samples per label, for the overview spectrograms
	combined := make(map[string][]float64)

	// Render a waveform trace for every stored sample
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || filepath.Ext(path) != ".csv" {
			return nil
		}

		label := filepath.Base(filepath.Dir(path))
		fmt.Printf("Processing %s...\n", path)

		sig, err := signal.LoadFile(path)
		if err != nil {
			log.Printf("Error reading %s: %v", path, err)
			return nil
		}
		if len(sig) == 0 {
			log.Printf("No samples in %s", path)
			return nil
		}

		combined[label] = append(combined[label], sig...)

		labelDir := filepath.Join(outputDir, label)
		if err := os.MkdirAll(labelDir, 0755); err != nil {
			log.Printf("Error creating %s: %v", labelDir, err)
			return nil
		}

		baseName := strings.TrimSuffix(filepath.Base(path), ".csv")
		outputPath := filepath.Join(labelDir, baseName+".png")

		img := analysis.PlotImage(sig, 0, 0)
		if err := analysis.SavePNG(img, outputPath); err != nil {
			log.Printf("Error saving PNG for %s: %v", outputPath, err)
			return nil
		}

		fmt.Printf("Saved trace to %s\n", outputPath)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	// Render one spectrogram per label over its concatenated samples
	for label, samples := range combined {
		if len(samples) < 256 {
			fmt.Printf("Skipping spectrogram for %s: only %d samples\n", label, len(samples))
			continue
		}

		width := 1024
		height := 128
		img := spectrogram.NewImage128(image.Rect(0, 0, width, height))

		// Fill with black background first
		black := spectrogram.ParseColor("000000")
		draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

		// FFT with a Hamming window, linear magnitude scale
		spectrogram.Drawfft(
			img,
			samples,
			uint32(sampleRate),
			uint32(height), // bins
			false,          // RECTANGLE (use Hamming window)
			false,          // DFT (use FFT instead)
			true,           // MAG (magnitude)
			false,          // LOG10 (linear scale)
		)

		outputPath := filepath.Join(outputDir, label, "overview_spectrogram.png")
		if err := spectrogram.SavePng(img, outputPath); err != nil {
			log.Printf("Error saving spectrogram for %s: %v", label, err)
			continue
		}

		fmt.Printf("Saved spectrogram to %s\n", outputPath)
	}

	fmt.Println("Done!")
}
