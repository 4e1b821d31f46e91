// Package presets persists user presets: per-kind default directories,
// extension filters, and languages used to seed new scans and track
// configurations. Preset values are applied once when a file is first
// configured and never force-overwritten afterwards.
//
// The on-disk JSON keys match the historical settings file so existing
// setting.json files keep loading.
package presets

import (
	"encoding/json"
	"os"
	"path/filepath"

	"batchmux/internal/services"
)

// Preset is one named bundle of scan and track defaults.
type Preset struct {
	Name                      string   `json:"Preset_Name"`
	VideoDirectory            string   `json:"Default_Video_Directory"`
	VideoExtensions           []string `json:"Default_Video_Extensions"`
	SubtitleDirectory         string   `json:"Default_Subtitle_Directory"`
	SubtitleExtensions        []string `json:"Default_Subtitle_Extensions"`
	SubtitleLanguage          string   `json:"Default_Subtitle_Language"`
	AudioDirectory            string   `json:"Default_Audio_Directory"`
	AudioExtensions           []string `json:"Default_Audio_Extensions"`
	AudioLanguage             string   `json:"Default_Audio_Language"`
	ChapterDirectory          string   `json:"Default_Chapter_Directory"`
	ChapterExtensions         []string `json:"Default_Chapter_Extensions"`
	AttachmentDirectory       string   `json:"Default_Attachment_Directory"`
	DestinationDirectory      string   `json:"Default_Destination_Directory"`
	FavoriteSubtitleLanguages []string `json:"Default_Favorite_Subtitle_Languages"`
	FavoriteAudioLanguages    []string `json:"Default_Favorite_Audio_Languages"`
}

// Options is the persisted settings document.
type Options struct {
	Presets          []Preset `json:"Presets"`
	FavoritePresetID int      `json:"FavoritePresetId"`
}

// DefaultPreset returns the preset seeded on first run.
func DefaultPreset() Preset {
	return Preset{
		Name:                      "Preset #1",
		VideoExtensions:           []string{"MKV"},
		SubtitleExtensions:        []string{"ASS"},
		SubtitleLanguage:          "English",
		AudioExtensions:           []string{"AAC"},
		AudioLanguage:             "English",
		ChapterExtensions:         []string{"XML"},
		FavoriteSubtitleLanguages: []string{"English", "Arabic"},
		FavoriteAudioLanguages:    []string{"English", "Arabic"},
	}
}

func defaultOptions() Options {
	return Options{Presets: []Preset{DefaultPreset()}}
}

// Load reads the settings document, returning first-run defaults when the
// file does not exist yet.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultOptions(), nil
		}
		return Options{}, services.Wrap(services.ErrConfiguration, "presets", "load", path, err)
	}
	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, services.Wrap(services.ErrConfiguration, "presets", "load", path, err)
	}
	if len(opts.Presets) == 0 {
		opts.Presets = []Preset{DefaultPreset()}
	}
	if opts.FavoritePresetID < 0 || opts.FavoritePresetID >= len(opts.Presets) {
		opts.FavoritePresetID = 0
	}
	return opts, nil
}

// Save writes the settings document, creating parent directories as needed.
func Save(path string, opts Options) error {
	if len(opts.Presets) == 0 {
		opts.Presets = []Preset{DefaultPreset()}
	}
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "presets", "save", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "presets", "save", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "presets", "save", path, err)
	}
	return nil
}

// Favorite returns the preset selected as the startup default.
func (o Options) Favorite() Preset {
	if o.FavoritePresetID >= 0 && o.FavoritePresetID < len(o.Presets) {
		return o.Presets[o.FavoritePresetID]
	}
	if len(o.Presets) > 0 {
		return o.Presets[0]
	}
	return DefaultPreset()
}
