package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/vocal-isolator/internal/ffmpeg"
	"github.com/handiism/vocal-isolator/internal/model"
)

// Silence holds the silenceremove filter parameters.
type Silence struct {
	StopPeriods     int     `toml:"stop_periods"`
	StopDuration    float64 `toml:"stop_duration"`
	StopThresholdDB float64 `toml:"stop_threshold_db"`
}

// Settings holds all configuration options.
type Settings struct {
	// Paths. An empty BaseDir means one level above the executable's folder.
	BaseDir     string `toml:"base_dir"`
	CatalogPath string `toml:"catalog_path"`
	FFmpegPath  string `toml:"ffmpeg_path"`

	// Layout names
	TrainingDir   string `toml:"training_dir"`
	OutputDir     string `toml:"output_dir"`
	OutputSuffix  string `toml:"output_suffix"`
	AudioExt      string `toml:"audio_extension"`
	ExcludeMarker string `toml:"exclude_marker"`

	// Processing
	Silence           Silence `toml:"silence"`
	Overwrite         bool    `toml:"overwrite"`
	MaxConcurrentJobs int     `toml:"max_concurrent_jobs"`

	// Tag settings
	ModifyTags bool `toml:"modify_tags"`

	// Playlist settings
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistFormat string `toml:"playlist_format"` // m3u, pls
	M3UExtended    bool   `toml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FFmpegPath: ffmpeg.DefaultBinary,

		TrainingDir:   "train",
		OutputDir:     "Isolated_Vocals",
		OutputSuffix:  "_Isolated_Vocals",
		AudioExt:      ".mp3",
		ExcludeMarker: "Instrumental",

		Silence: Silence{
			StopPeriods:     -1,
			StopDuration:    1,
			StopThresholdDB: -50,
		},
		Overwrite:         true,
		MaxConcurrentJobs: 2,

		ModifyTags: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// DefaultPath returns the default settings file location,
// <user config dir>/vocal-isolator/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vocal-isolator", "config.toml"), nil
}

// Load reads settings from a TOML file.
//
// Values missing from the file keep their defaults. A missing file is not
// an error and yields DefaultSettings().
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, err
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveBaseDir returns BaseDir, or the parent of the directory holding
// the running executable when BaseDir is empty.
func (s *Settings) ResolveBaseDir() (string, error) {
	if s.BaseDir != "" {
		return filepath.Abs(s.BaseDir)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// ToLayout converts settings to a model.Layout rooted at baseDir.
func (s *Settings) ToLayout(baseDir string) model.Layout {
	return model.Layout{
		BaseDir:       baseDir,
		TrainingDir:   s.TrainingDir,
		OutputDir:     s.OutputDir,
		OutputSuffix:  s.OutputSuffix,
		AudioExt:      s.AudioExt,
		ExcludeMarker: s.ExcludeMarker,
	}
}

// ToSilenceRemove converts settings to the ffmpeg filter.
func (s *Settings) ToSilenceRemove() ffmpeg.SilenceRemove {
	return ffmpeg.SilenceRemove{
		StopPeriods:     s.Silence.StopPeriods,
		StopDuration:    s.Silence.StopDuration,
		StopThresholdDB: s.Silence.StopThresholdDB,
	}
}
