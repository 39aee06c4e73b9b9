package config

const (
	defaultInputDir       = "~/vocabscan/input"
	defaultOutputCSV      = "~/vocabscan/anki_cards.csv"
	defaultLedgerPath     = "~/.local/share/vocabscan/ledger.json"
	defaultLogDir         = "~/.local/share/vocabscan/logs"
	defaultVisionProvider = "ollama"
	defaultVisionBaseURL  = "http://127.0.0.1:11434"
	defaultVisionModel    = "qwen2.5-vl"
	defaultVisionTimeout  = 120
	defaultPreset         = "default"
	defaultWatchInterval  = 30
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:   defaultInputDir,
			OutputCSV:  defaultOutputCSV,
			LedgerPath: defaultLedgerPath,
			LogDir:     defaultLogDir,
		},
		Vision: Vision{
			Provider:       defaultVisionProvider,
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			TimeoutSeconds: defaultVisionTimeout,
		},
		Preprocessing: Preprocessing{
			Preset: defaultPreset,
		},
		Watch: Watch{
			IntervalSeconds: defaultWatchInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
