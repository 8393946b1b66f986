package signal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A sample file holds exactly one CSV row: the amplitudes of a single
// recorded window, comma separated. Anything else is a malformed sample.

// ReadRow parses a single-row CSV document into a Signal.
func ReadRow(r io.Reader) (Signal, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Rows are plain numbers, so quote handling only hides damage.
	cr.LazyQuotes = false

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sample file is empty")
	}
	if len(records) > 1 {
		return nil, fmt.Errorf("expected a single row, found %d", len(records))
	}
	return ParseRecord(records[0])
}

// ParseRecord converts one CSV record's cells into a Signal.
func ParseRecord(row []string) (Signal, error) {
	sig := make(Signal, 0, len(row))
	for i, cell := range row {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: invalid amplitude %q", i, cell)
		}
		sig = append(sig, v)
	}
	if len(sig) == 0 {
		return nil, fmt.Errorf("sample row has no columns")
	}
	return sig, nil
}

// WriteRow writes the signal as a single CSV row. Values are formatted
// with the shortest representation that round-trips through ParseFloat.
func WriteRow(w io.Writer, sig Signal) error {
	if len(sig) == 0 {
		return fmt.Errorf("refusing to write an empty signal")
	}

	row := make([]string, len(sig))
	for i, v := range sig {
		row[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv row: %w", err)
	}
	return nil
}

// LoadFile reads one sample file from disk.
func LoadFile(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample %s: %w", path, err)
	}
	defer f.Close()

	sig, err := ReadRow(f)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", path, err)
	}
	return sig, nil
}
