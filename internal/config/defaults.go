package config

const (
	defaultDataDir      = "~/.local/share/bookstack/data"
	defaultLogDir       = "~/.local/share/bookstack/logs"
	defaultCacheDir     = "~/.cache/bookstack"
	defaultWordsPerPage = 390
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// Plan defaults applied during normalization.
	defaultPlanPerYear = 1
	defaultPlanOffset  = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		Kindle: Kindle{
			WordsPerPage: defaultWordsPerPage,
		},
		Merge: Merge{
			Volumes: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
