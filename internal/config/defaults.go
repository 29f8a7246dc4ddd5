package config

const (
	defaultLanguage        = "en"
	defaultLibraryDir      = "~/library"
	defaultWorkDir         = "~/.local/share/recut/work"
	defaultLogDir          = "~/.local/share/recut/logs"
	defaultMinFreeGB       = 10
	defaultThreshSeconds   = 5.0
	defaultContainer       = "mp4"
	defaultVideoCodec      = "h264"
	defaultVideoCRF        = 23
	defaultVideoBitrateK   = 1500
	defaultAudioEncoder    = "aac"
	defaultAudioBitrateK   = 128
	defaultAudioQuality    = 0.4
	defaultMetadataFormat  = "%T/%T - %S"
	defaultReplaceChar     = "-"
	defaultCatalogPath     = "~/.local/share/recut/catalog.db"
	defaultEpisodesBaseURL = "https://api.thetvdb.com"
	defaultEpisodesTimeout = 30
	defaultProjectXJar     = "project-x/ProjectX.jar"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Language: defaultLanguage,
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			WorkDir:    defaultWorkDir,
			LogDir:     defaultLogDir,
			MinFreeGB:  defaultMinFreeGB,
		},
		Segments: Segments{
			ThreshSeconds: defaultThreshSeconds,
		},
		Video: Video{
			Container: defaultContainer,
			Codec:     defaultVideoCodec,
			CRF:       defaultVideoCRF,
			BitrateK:  defaultVideoBitrateK,
		},
		Audio: Audio{
			Encoder:  defaultAudioEncoder,
			BitrateK: defaultAudioBitrateK,
			Quality:  defaultAudioQuality,
		},
		Subtitles: Subtitles{
			Enabled: true,
		},
		Metadata: Metadata{
			Enabled:                true,
			Format:                 defaultMetadataFormat,
			ReplaceChar:            defaultReplaceChar,
			UseEpisodeRating:       true,
			UseEpisodeDescriptions: true,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Episodes: Episodes{
			BaseURL:        defaultEpisodesBaseURL,
			TimeoutSeconds: defaultEpisodesTimeout,
		},
		Tools: Tools{
			ProjectXJar: defaultProjectXJar,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
