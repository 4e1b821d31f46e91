package config

// Default returns the built-in configuration used before any file is read.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/batchmux",
			LogDir:  "~/.local/share/batchmux/logs",
		},
		Defaults: Defaults{
			AudioLanguage:      "eng",
			SubtitleLanguage:   "eng",
			VideoExtensions:    []string{"mkv"},
			AudioExtensions:    []string{"aac", "ac3", "flac", "mka"},
			SubtitleExtensions: []string{"ass", "srt", "sup"},
			ChapterExtensions:  []string{"xml", "txt"},
		},
		Mux: Mux{
			MaxParallelJobs: 1,
		},
		Tools: Tools{
			Mkvmerge:    "mkvmerge",
			Mkvpropedit: "mkvpropedit",
			Mediainfo:   "mediainfo",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
