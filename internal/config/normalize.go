package config

import (
	"strings"

	"batchmux/internal/language"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.DestinationDir) != "" {
		if c.Paths.DestinationDir, err = expandPath(c.Paths.DestinationDir); err != nil {
			return err
		}
	} else {
		c.Paths.DestinationDir = ""
	}

	c.Defaults.AudioLanguage = language.Canonical(c.Defaults.AudioLanguage)
	c.Defaults.SubtitleLanguage = language.Canonical(c.Defaults.SubtitleLanguage)
	c.Defaults.VideoExtensions = normalizeExtensions(c.Defaults.VideoExtensions)
	c.Defaults.AudioExtensions = normalizeExtensions(c.Defaults.AudioExtensions)
	c.Defaults.SubtitleExtensions = normalizeExtensions(c.Defaults.SubtitleExtensions)
	c.Defaults.ChapterExtensions = normalizeExtensions(c.Defaults.ChapterExtensions)

	c.Tools.Mkvmerge = defaultString(c.Tools.Mkvmerge, "mkvmerge")
	c.Tools.Mkvpropedit = defaultString(c.Tools.Mkvpropedit, "mkvpropedit")
	c.Tools.Mediainfo = defaultString(c.Tools.Mediainfo, "mediainfo")

	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, "console"))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, "info"))

	if c.Mux.MaxParallelJobs < 1 {
		c.Mux.MaxParallelJobs = 1
	}
	return nil
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, ".")))
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
