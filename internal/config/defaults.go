package config

const (
	defaultBackendURL     = "http://127.0.0.1:8000"
	defaultRequestTimeout = 30
	defaultPollInterval   = 10
	defaultSessionDir     = "~/.local/share/missiondeck"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			URL:            defaultBackendURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Dashboard: Dashboard{
			PollInterval: defaultPollInterval,
			SessionDir:   defaultSessionDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
