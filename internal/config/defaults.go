package config

const (
	defaultDataRoot       = "myodna_data"
	defaultPlotDir        = "myodna_plots"
	defaultAPIBind        = "127.0.0.1:8090"
	defaultWindow         = 64
	defaultSynthAmplitude = 0.8
	defaultSynthSeed      = 1
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults. Paths
// that honour environment fallbacks start empty; normalize fills them.
func Default() Config {
	return Config{
		Paths: Paths{
			PlotDir: defaultPlotDir,
			APIBind: defaultAPIBind,
		},
		Device: Device{
			Window:         defaultWindow,
			SynthAmplitude: defaultSynthAmplitude,
			SynthSeed:      defaultSynthSeed,
		},
		Logging: Logging{
			Level: defaultLogLevel,
			Color: true,
		},
	}
}
