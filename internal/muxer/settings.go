package muxer

import (
	"strings"

	"batchmux/internal/config"
)

// Settings captures one run's execution options. Config supplies the
// defaults; command flags may override individual fields before the run
// starts.
type Settings struct {
	DestinationDir  string
	OverwriteSource bool
	MaxParallelJobs int
	AbortOnErrors   bool

	AddCRC       bool
	RemoveOldCRC bool
	KeepLogFile  bool

	UseMkvpropedit        bool
	DiscardOldChapters    bool
	DiscardOldAttachments bool
	RemoveGlobalTags      bool

	// DefaultAudioLanguage promotes the first internal audio track with a
	// matching language to the default flag. Same for subtitles.
	DefaultAudioLanguage    string
	DefaultSubtitleLanguage string

	// KeepAudioLanguages drops internal audio tracks whose language is not
	// listed. Empty means keep everything. Same for subtitles.
	KeepAudioLanguages    []string
	KeepSubtitleLanguages []string

	MkvmergeBinary    string
	MkvpropeditBinary string
}

// FromConfig builds run settings from the loaded configuration.
func FromConfig(cfg *config.Config) Settings {
	s := Settings{
		DestinationDir:        cfg.Paths.DestinationDir,
		OverwriteSource:       cfg.Mux.OverwriteSource,
		MaxParallelJobs:       cfg.Mux.MaxParallelJobs,
		AbortOnErrors:         cfg.Mux.AbortOnErrors,
		AddCRC:                cfg.Mux.AddCRC,
		RemoveOldCRC:          cfg.Mux.RemoveOldCRC,
		KeepLogFile:           cfg.Mux.KeepLogFile,
		UseMkvpropedit:        cfg.Mux.UseMkvpropedit,
		DiscardOldChapters:    cfg.Mux.DiscardOldChapters,
		DiscardOldAttachments: cfg.Mux.DiscardOldAttachments,
		RemoveGlobalTags:      cfg.Mux.RemoveGlobalTags,
		MkvmergeBinary:        cfg.Tools.Mkvmerge,
		MkvpropeditBinary:     cfg.Tools.Mkvpropedit,
	}
	return s.normalized()
}

func (s Settings) normalized() Settings {
	if s.MaxParallelJobs < 1 {
		s.MaxParallelJobs = 1
	}
	if strings.TrimSpace(s.MkvmergeBinary) == "" {
		s.MkvmergeBinary = "mkvmerge"
	}
	if strings.TrimSpace(s.MkvpropeditBinary) == "" {
		s.MkvpropeditBinary = "mkvpropedit"
	}
	return s
}

func languageListed(languages []string, language string) bool {
	for _, candidate := range languages {
		if strings.EqualFold(candidate, language) {
			return true
		}
	}
	return false
}
