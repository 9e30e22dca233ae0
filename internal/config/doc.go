// Package config provides configuration management for vocal-isolator.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Loading the group/member catalog from YAML
//   - Conversion to model.Layout and ffmpeg.SilenceRemove for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// base directory: one level above the executable's folder
//	// silence removal: all periods, 1s, -50dB
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // A missing file is not an error: defaults are returned
//	}
//
// # Catalog
//
// The catalog is a YAML list of groups. The built-in catalog is embedded;
// LoadCatalog("") returns it:
//
//	- name: ITZY
//	  members: [Yeji, Lia, Ryujin, Chaeryeong, Yuna]
package config
