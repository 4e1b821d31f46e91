package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir        string `toml:"data_dir"`
	LogDir         string `toml:"log_dir"`
	DestinationDir string `toml:"destination_dir"`
}

// Defaults seeds new track configurations; values are read once when a file
// is first configured and never force-overwritten afterwards.
type Defaults struct {
	AudioLanguage      string   `toml:"audio_language"`
	SubtitleLanguage   string   `toml:"subtitle_language"`
	VideoExtensions    []string `toml:"video_extensions"`
	AudioExtensions    []string `toml:"audio_extensions"`
	SubtitleExtensions []string `toml:"subtitle_extensions"`
	ChapterExtensions  []string `toml:"chapter_extensions"`
}

// Mux contains default execution settings for the mux executor.
type Mux struct {
	MaxParallelJobs       int  `toml:"max_parallel_jobs"`
	AbortOnErrors         bool `toml:"abort_on_errors"`
	OverwriteSource       bool `toml:"overwrite_source"`
	AddCRC                bool `toml:"add_crc"`
	RemoveOldCRC          bool `toml:"remove_old_crc"`
	KeepLogFile           bool `toml:"keep_log_file"`
	UseMkvpropedit        bool `toml:"use_mkvpropedit"`
	DiscardOldChapters    bool `toml:"discard_old_chapters"`
	DiscardOldAttachments bool `toml:"discard_old_attachments"`
	RemoveGlobalTags      bool `toml:"remove_global_tags"`
}

// Tools names the external binaries the collaborators shell out to.
type Tools struct {
	Mkvmerge    string `toml:"mkvmerge"`
	Mkvpropedit string `toml:"mkvpropedit"`
	Mediainfo   string `toml:"mediainfo"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for batchmux.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Defaults Defaults `toml:"defaults"`
	Mux      Mux      `toml:"mux"`
	Tools    Tools    `toml:"tools"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/batchmux/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second and third
// return values report the resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("batchmux.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.DestinationDir) != "" {
		// Best-effort so config load survives offline storage.
		_ = os.MkdirAll(c.Paths.DestinationDir, 0o755)
	}
	return nil
}

// LogPath returns the path of the shared muxing log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "batchmux.log")
}

// PresetsPath returns the path of the presets settings file.
func (c *Config) PresetsPath() string {
	return filepath.Join(c.Paths.DataDir, "setting.json")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
