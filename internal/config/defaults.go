package config

const (
	defaultCacheDir            = "~/.cache/prism"
	defaultLogDir              = "~/.local/share/prism/logs"
	defaultDocsDir             = "docs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultFetchUserAgent      = "prism/dev"
	defaultFetchTimeoutSeconds = 60
	defaultFetchMaxRetries     = 2
	defaultJPEGQuality         = 90
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
			DocsDir:  defaultDocsDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Fetch: Fetch{
			UserAgent:      defaultFetchUserAgent,
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			MaxRetries:     defaultFetchMaxRetries,
		},
		Convert: Convert{
			JPEGQuality: defaultJPEGQuality,
		},
	}
}
