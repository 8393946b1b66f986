package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	samplePrefix = "sample_"
	sampleSuffix = ".csv"
)

// ValidLabel reports whether a label can serve as a directory name
// under the storage root.
func ValidLabel(label string) bool {
	if label == "" || label == "." || label == ".." {
		return false
	}
	if strings.ContainsAny(label, `/\`) {
		return false
	}
	return true
}

// sampleFileName builds the record file name for a 1-based sample index.
func sampleFileName(index int) string {
	return fmt.Sprintf("%s%d%s", samplePrefix, index, sampleSuffix)
}

// parseSampleIndex extracts the numeric index from a record file name
// like "sample_3.csv". Files that do not follow the pattern report ok=false.
func parseSampleIndex(name string) (int, bool) {
	rest, found := strings.CutPrefix(name, samplePrefix)
	if !found {
		return 0, false
	}
	rest, found = strings.CutSuffix(rest, sampleSuffix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// nextSampleIndex picks the index for a new record in dir. It is one past
// the highest index already present, so gaps left by deleted records are
// never refilled while a later record still exists. An empty or freshly
// created directory starts at 1.
func nextSampleIndex(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	highest := 0
	for _, entry := range entries {
		if n, ok := parseSampleIndex(entry.Name()); ok && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}
