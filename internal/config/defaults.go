package config

const (
	defaultDataDir         = "~/.local/share/atelier/data"
	defaultUploadDir       = "~/.local/share/atelier/uploads"
	defaultLogDir          = "~/.local/share/atelier/logs"
	defaultAPIBind         = "127.0.0.1:5173"
	defaultStoreBackend    = "memory"
	defaultMaxUploadMiB    = 50
	defaultChunkIntervalMS = 1000
	defaultFrameQuality    = 80
	defaultLogFormat       = ""
	defaultLogLevel        = "info"
)

func defaultAllowedTypes() []string {
	return []string{"video/webm", "audio/webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			UploadDir: defaultUploadDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		Upload: Upload{
			MaxUploadMiB: defaultMaxUploadMiB,
			AllowedTypes: defaultAllowedTypes(),
		},
		Capture: Capture{
			ChunkIntervalMS: defaultChunkIntervalMS,
			FrameQuality:    defaultFrameQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
