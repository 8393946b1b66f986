package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func renderStatus(kind statusKind, message string, colorize bool) string {
	line := fmt.Sprintf("[%s] %s", statusKindLabel(kind), message)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline compresses a signal into one line of block runes. Each
// column shows the largest-magnitude sample of its slice, so short
// spikes stay visible after downsampling.
func sparkline(sig signal.Signal, width int) string {
	if len(sig) == 0 {
		return ""
	}
	if width <= 0 || width > len(sig) {
		width = len(sig)
	}

	peak := 0.0
	for _, v := range sig {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}

	step := float64(len(sig)) / float64(width)
	var b strings.Builder
	for i := 0; i < width; i++ {
		start := int(float64(i) * step)
		end := int(float64(i+1) * step)
		if end <= start {
			end = start + 1
		}
		if end > len(sig) {
			end = len(sig)
		}

		rep := sig[start]
		for _, v := range sig[start:end] {
			if math.Abs(v) > math.Abs(rep) {
				rep = v
			}
		}

		norm := (rep/peak + 1) / 2
		idx := int(norm*float64(len(sparkLevels)-1) + 0.5)
		if idx < 0 {
			idx = 0
		}
		if idx > len(sparkLevels)-1 {
			idx = len(sparkLevels) - 1
		}
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
