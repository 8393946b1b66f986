package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/himanishpuri/MyoDNA/internal/config"
	"github.com/himanishpuri/MyoDNA/internal/console"
	"github.com/himanishpuri/MyoDNA/internal/trainer"
	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/analysis"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/dataset"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/device"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/journal"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Global flags
var (
	configPath  string
	dataRoot    string
	journalPath string
	noColor     bool
)

func init() {
	// Global flags that can be used with any command
	flag.StringVar(&configPath, "config", "", "Path to a TOML config file (default: ~/.config/myodna/config.toml)")
	flag.StringVar(&dataRoot, "data", "", "Dataset root directory (overrides config and MYO_DATA_ROOT)")
	flag.StringVar(&journalPath, "journal", "", "SQLite journal path (overrides config and MYO_JOURNAL_PATH)")
	flag.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// loadConfig resolves the effective configuration: file, environment,
// then command line flags on top.
func loadConfig() *config.Config {
	log := logger.GetLogger()

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		log.Error("Config load failed: %v", err)
		os.Exit(1)
	}
	if exists {
		log.Debug("Loaded config from %s", resolved)
	}

	if dataRoot != "" {
		cfg.Paths.DataRoot = dataRoot
	}
	if journalPath != "" {
		cfg.Paths.JournalPath = journalPath
	}

	logger.SetLevel(cfg.LogLevel())
	if noColor || !cfg.Logging.Color {
		logger.SetColorize(false)
	}
	return cfg
}

// createService creates a new MyoDNA service with configured options
func createService(cfg *config.Config) (myodna.Service, error) {
	opts := []myodna.Option{
		myodna.WithDataRoot(cfg.Paths.DataRoot),
	}
	if cfg.Paths.JournalPath != "" {
		opts = append(opts, myodna.WithJournalPath(cfg.Paths.JournalPath))
	}
	return myodna.NewService(opts...)
}

func main() {
	log := logger.GetLogger()

	printBanner()

	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	log.Info("Executing command: %s", command)

	switch command {
	case "match":
		handleMatch()
	case "add":
		handleAdd()
	case "list":
		handleList()
	case "delete":
		handleDelete()
	case "watch":
		handleWatch()
	case "inspect":
		handleInspect()
	case "history":
		handleHistory()
	case "config":
		handleConfig()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
  __  __             ____  _   _    _
 |  \/  |_   _  ___ |  _ \| \ | |  / \
 | |\/| | | | |/ _ \| | | |  \| | / _ \
 | |  | | |_| | (_) | |_| | |\  |/ ___ \
 |_|  |_|\__, |\___/|____/|_| \_/_/   \_\
         |___/
           EMG Gesture Matching CLI Tool
`
	fmt.Println(banner)
}

// loadWindows reads signals from a sample CSV, a session CSV, or a WAV
// recording. CSV sample files hold one signal; WAV files are sliced
// into windows and all=false keeps only the first.
func loadWindows(path string, window int, all bool) ([]signal.Signal, error) {
	if filepath.Ext(path) != ".wav" {
		sig, err := signal.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []signal.Signal{sig}, nil
	}

	source, err := device.OpenWAV(path, window)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	var signals []signal.Signal
	for {
		sig, ok := source.Next()
		if !ok {
			break
		}
		signals = append(signals, sig)
		if !all {
			break
		}
	}
	if len(signals) == 0 {
		return nil, fmt.Errorf("%s holds no full window of %d samples", path, window)
	}
	return signals, nil
}

func handleMatch() {
	log := logger.GetLogger()

	args := flag.Args()[1:]
	if len(args) < 1 {
		fmt.Println("Usage: myoDNA match <signal.csv|recording.wav>")
		os.Exit(1)
	}
	signalPath := args[0]

	cfg := loadConfig()
	log.Info("Matching signal file: %s", signalPath)

	fmt.Println("🔧 Initializing service...")
	svc, err := createService(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Error("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	signals, err := loadWindows(signalPath, cfg.Device.Window, false)
	if err != nil {
		fmt.Printf("❌ Failed to read signal: %v\n", err)
		log.Error("Signal load failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("🔍 Scanning reference signals...")
	result := svc.BestMatch(signals[0])

	if result.Known() {
		fmt.Println("\n✅ Matched gesture!")
		fmt.Printf("   Label:    %s\n", result.Label)
		fmt.Printf("   Distance: %.4f\n", result.Distance)
		fmt.Printf("   Compared: %d reference(s)\n", result.Compared)
	} else {
		fmt.Println("\n📭 No match")
		fmt.Printf("   Compared: %d reference(s)\n", result.Compared)
		if result.LengthMismatch > 0 {
			fmt.Printf("   Skipped:  %d with different lengths\n", result.LengthMismatch)
		}
	}
	if result.NonFinite > 0 {
		fmt.Printf("   ⚠️  %d reference(s) skipped with unusable distances\n", result.NonFinite)
	}
}

func handleAdd() {
	log := logger.GetLogger()

	args := flag.Args()[1:]
	if len(args) < 2 {
		fmt.Println("Usage: myoDNA add <label> <signal.csv|recording.wav> [--all]")
		os.Exit(1)
	}
	label := args[0]
	signalPath := args[1]

	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	all := addCmd.Bool("all", false, "Save every window of a WAV recording, not just the first")
	addCmd.Parse(args[2:])

	cfg := loadConfig()
	log.Info("Adding signal(s) for label %q from %s", label, signalPath)

	fmt.Println("🔧 Initializing service...")
	svc, err := createService(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Error("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	signals, err := loadWindows(signalPath, cfg.Device.Window, *all)
	if err != nil {
		fmt.Printf("❌ Failed to read signal: %v\n", err)
		log.Error("Signal load failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("💪 Saving %d signal(s) under %q...\n", len(signals), label)
	saved := 0
	for _, sig := range signals {
		if svc.SaveSignal(label, sig) {
			saved++
		}
	}

	if saved == 0 {
		fmt.Println("\n❌ No signals saved")
		log.Error("All saves failed for label %q", label)
		os.Exit(1)
	}

	fmt.Println("\n✅ Successfully added signal(s)!")
	fmt.Printf("   Label:   %s\n", label)
	fmt.Printf("   Saved:   %d\n", saved)
	fmt.Printf("   Stored:  %d total\n", svc.SignalCount(label))
	log.Info("Saved %d signal(s) under %q", saved, label)
}

func handleList() {
	log := logger.GetLogger()

	cfg := loadConfig()
	svc, err := createService(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Error("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	labels := svc.ListLabels()
	if len(labels) == 0 {
		fmt.Println("📭 No gestures stored yet")
		log.Info("Dataset is empty")
		return
	}

	total := 0
	fmt.Printf("📚 Found %d gesture(s):\n\n", len(labels))
	for i, info := range labels {
		fmt.Printf("%d. %s (%d signal(s))\n", i+1, info.Label, info.Samples)
		total += info.Samples
	}
	fmt.Printf("\n   %d signal(s) in %s\n", total, cfg.Paths.DataRoot)
	log.Info("Listed %d labels", len(labels))
}

func handleDelete() {
	log := logger.GetLogger()

	args := flag.Args()[1:]
	if len(args) < 1 {
		fmt.Println("Usage: myoDNA delete <label>")
		os.Exit(1)
	}
	label := args[0]

	cfg := loadConfig()
	svc, err := createService(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Error("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	// Count before deletion for the report.
	count := svc.SignalCount(label)

	if !svc.DeleteSignal(label) {
		fmt.Printf("❌ Could not delete %q (unknown label?)\n", label)
		log.Warn("Delete failed for label %q", label)
		os.Exit(1)
	}

	fmt.Println("\n✅ Successfully deleted gesture:")
	fmt.Printf("   Label:   %s\n", label)
	fmt.Printf("   Signals: %d removed\n", count)
	log.Info("Deleted label %q (%d signals)", label, count)
}

func handleWatch() {
	log := logger.GetLogger()

	args := flag.Args()[1:]
	watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
	wavPath := watchCmd.String("wav", "", "Replay a WAV recording instead of the synthetic source")
	sessionPath := watchCmd.String("session", "", "Replay a CSV session file (one signal per row)")
	count := watchCmd.Int("count", 0, "Number of synthetic windows to generate (0 = unlimited)")
	intervalMs := watchCmd.Int("interval", 250, "Milliseconds between windows")
	watchCmd.Parse(args)

	cfg := loadConfig()

	fmt.Println("🔧 Initializing service...")
	svc, err := createService(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Error("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	var source device.Source
	switch {
	case *wavPath != "":
		source, err = device.OpenWAV(*wavPath, cfg.Device.Window)
	case *sessionPath != "":
		source, err = device.OpenSession(*sessionPath)
	default:
		source = device.NewSynth(cfg.Device.Window, *count, cfg.Device.SynthAmplitude, cfg.Device.SynthSeed)
	}
	if err != nil {
		fmt.Printf("❌ Failed to open signal source: %v\n", err)
		log.Error("Source open failed: %v", err)
		os.Exit(1)
	}

	ui := console.New(os.Stdin, os.Stdout)
	if noColor || !cfg.Logging.Color {
		ui.SetColorize(false)
	}

	fmt.Println("💪 Live session started. Type help for commands.")
	session := trainer.New(svc, source, ui, trainer.Options{
		Interval: time.Duration(*intervalMs) * time.Millisecond,
	})
	if err := session.Run(context.Background()); err != nil {
		fmt.Printf("❌ Session failed: %v\n", err)
		log.Error("Session failed: %v", err)
		os.Exit(1)
	}
	ui.Wait()
	fmt.Println("👋 Session finished")
}

func handleInspect() {
	log := logger.GetLogger()

	args := flag.Args()[1:]
	if len(args) < 2 {
		fmt.Println("Usage: myoDNA inspect <label> <n> [--rate <hz>] [--png <out.png>]")
		os.Exit(1)
	}
	label := args[0]
	index, err := strconv.Atoi(args[1])
	if err != nil || index < 1 {
		fmt.Printf("❌ Invalid signal number: %s\n", args[1])
		os.Exit(1)
	}

	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	rate := inspectCmd.Int("rate", 200, "Sampling rate in Hz for frequency readouts")
	pngPath := inspectCmd.String("png", "", "Also render the signal to a PNG file")
	inspectCmd.Parse(args[2:])

	cfg := loadConfig()

	store, err := dataset.New(cfg.Paths.DataRoot, logger.GetLogger())
	if err != nil {
		fmt.Printf("❌ Failed to open dataset: %v\n", err)
		log.Error("Dataset open failed: %v", err)
		os.Exit(1)
	}

	signals := store.Signals(label)
	if index > len(signals) {
		fmt.Printf("❌ Label %q has %d signal(s), asked for #%d\n", label, len(signals), index)
		os.Exit(1)
	}
	sig := signals[index-1]

	fmt.Printf("📈 %s #%d (%d samples)\n\n", label, index, len(sig))

	ui := console.New(os.Stdin, os.Stdout)
	if noColor || !cfg.Logging.Color {
		ui.SetColorize(false)
	}
	ui.RenderSignal(sig)

	spectrum := analysis.Spectrum(sig)
	if bin := analysis.DominantBin(spectrum); bin >= 0 {
		fmt.Printf("\n   Dominant bin: %d (%.1f Hz at %d Hz sampling)\n",
			bin, analysis.BinFrequency(bin, len(sig), *rate), *rate)
	}

	if *pngPath != "" {
		img := analysis.PlotImage(sig, 0, 0)
		if err := analysis.SavePNG(img, *pngPath); err != nil {
			fmt.Printf("❌ Failed to save plot: %v\n", err)
			log.Error("Plot save failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Plot saved to %s\n", *pngPath)
	}
}

func handleHistory() {
	log := logger.GetLogger()

	args := flag.Args()[1:]
	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	limit := historyCmd.Int("limit", 20, "Number of events to show")
	historyCmd.Parse(args)

	cfg := loadConfig()
	if cfg.Paths.JournalPath == "" {
		fmt.Println("📭 Journaling is disabled. Set journal_path in the config or MYO_JOURNAL_PATH.")
		return
	}

	svc, err := createService(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Error("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	events, err := svc.History(*limit)
	if err != nil {
		fmt.Printf("❌ Failed to read history: %v\n", err)
		log.Error("History query failed: %v", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		fmt.Println("📭 No events recorded yet")
		return
	}

	fmt.Printf("📜 Last %d event(s):\n\n", len(events))
	for i, event := range events {
		line := fmt.Sprintf("%d. [%s] %s", i+1, event.Kind, event.Label)
		if event.Distance >= 0 {
			line += fmt.Sprintf(" distance=%.4f", event.Distance)
		}
		line += fmt.Sprintf(" at %s", event.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println(line)
	}

	totals, err := svc.EventTotals()
	if err != nil {
		log.Warn("Failed to count events: %v", err)
		return
	}
	fmt.Printf("\n   All time: %d match, %d save, %d delete\n",
		totals[journal.KindMatch], totals[journal.KindSave], totals[journal.KindDelete])
}

func handleConfig() {
	args := flag.Args()[1:]
	if len(args) < 1 || args[0] != "init" {
		fmt.Println("Usage: myoDNA config init [path]")
		os.Exit(1)
	}

	path := ""
	if len(args) > 1 {
		path = args[1]
	} else {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Printf("❌ Could not resolve config location: %v\n", err)
			os.Exit(1)
		}
		path = defaultPath
	}

	if err := config.CreateSample(path); err != nil {
		fmt.Printf("❌ Failed to write sample config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Sample config written to %s\n", path)
	fmt.Println("   Edit it, then rerun your command.")
}

func printUsage() {
	fmt.Println("MyoDNA - EMG Gesture Matching CLI")
	fmt.Println("\nGlobal Options:")
	fmt.Println("  --config <path>    TOML config file (default: ~/.config/myodna/config.toml)")
	fmt.Println("  --data <dir>       Dataset root (env: MYO_DATA_ROOT, default: myodna_data)")
	fmt.Println("  --journal <path>   SQLite event journal (env: MYO_JOURNAL_PATH, default: disabled)")
	fmt.Println("  --no-color         Disable colored output")
	fmt.Println("\nUsage:")
	fmt.Println("  myoDNA [global-options] match <signal.csv|recording.wav>")
	fmt.Println("  myoDNA [global-options] add <label> <signal.csv|recording.wav> [--all]")
	fmt.Println("  myoDNA [global-options] list")
	fmt.Println("  myoDNA [global-options] delete <label>")
	fmt.Println("  myoDNA [global-options] watch [--wav <file>] [--session <file>] [--count <n>] [--interval <ms>]")
	fmt.Println("  myoDNA [global-options] inspect <label> <n> [--rate <hz>] [--png <out.png>]")
	fmt.Println("  myoDNA [global-options] history [--limit <n>]")
	fmt.Println("  myoDNA config init [path]")
	fmt.Println("\nExamples:")
	fmt.Println("  # Record a gesture from a WAV capture, keeping every window")
	fmt.Println("  myoDNA add fist capture.wav --all")
	fmt.Println()
	fmt.Println("  # Match a single stored-format signal")
	fmt.Println("  myoDNA --data ./gestures match sample.csv")
	fmt.Println()
	fmt.Println("  # Live session against the synthetic source")
	fmt.Println("  myoDNA watch --count 50 --interval 500")
	fmt.Println()
	fmt.Println("  # Plot the third signal stored for \"wave_in\"")
	fmt.Println("  myoDNA inspect wave_in 3 --png wave.png")
}
