//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"flag"
	"strings"

	"github.com/himanishpuri/MyoDNA/internal/config"
	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna"
)

var (
	configPath     string
	bind           string
	dataRoot       string
	journalPath    string
	allowedOrigins string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to a TOML config file (default: ~/.config/myodna/config.toml)")
	flag.StringVar(&bind, "bind", "", "Listen address (overrides config, default 127.0.0.1:8090)")
	flag.StringVar(&dataRoot, "data", "", "Dataset root directory (overrides config and MYO_DATA_ROOT)")
	flag.StringVar(&journalPath, "journal", "", "SQLite journal path (overrides config and MYO_JOURNAL_PATH)")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}
	if exists {
		log.Debug("Loaded config from %s", resolved)
	}
	if bind != "" {
		cfg.Paths.APIBind = bind
	}
	if dataRoot != "" {
		cfg.Paths.DataRoot = dataRoot
	}
	if journalPath != "" {
		cfg.Paths.JournalPath = journalPath
	}
	logger.SetLevel(cfg.LogLevel())
	if !cfg.Logging.Color {
		logger.SetColorize(false)
	}

	// Parse allowed origins
	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	opts := []myodna.Option{
		myodna.WithDataRoot(cfg.Paths.DataRoot),
	}
	if cfg.Paths.JournalPath != "" {
		opts = append(opts, myodna.WithJournalPath(cfg.Paths.JournalPath))
	}
	service, err := myodna.NewService(opts...)
	if err != nil {
		log.Fatal("Failed to create service: %v", err)
	}
	defer service.Close()

	serverConfig := &ServerConfig{
		Bind:           cfg.Paths.APIBind,
		DataRoot:       cfg.Paths.DataRoot,
		JournalPath:    cfg.Paths.JournalPath,
		AllowedOrigins: origins,
	}

	server := NewServer(service, serverConfig)
	if err := server.Start(); err != nil {
		log.Fatal("Server failed: %v", err)
	}
}
