package model

import (
	"path/filepath"
	"strings"
)

// Layout holds the fixed names of the on-disk tree.
//
// The input tree is <BaseDir>/<Group>/<Member>/<TrainingDir>/*<AudioExt>
// and results land in <TrainingDir>/<OutputDir>/<stem><OutputSuffix><AudioExt>.
//
// Example:
//
//	layout := DefaultLayout("/data")
//	// TrainingDir "train", OutputDir "Isolated_Vocals",
//	// OutputSuffix "_Isolated_Vocals", AudioExt ".mp3",
//	// ExcludeMarker "Instrumental"
type Layout struct {
	// BaseDir is the root holding one folder per group.
	BaseDir string

	// TrainingDir is the per-member subfolder holding source songs.
	TrainingDir string

	// OutputDir is the subfolder of TrainingDir receiving processed songs.
	OutputDir string

	// OutputSuffix is appended to the song stem for the output file name.
	OutputSuffix string

	// AudioExt is the extension (with dot) of eligible songs and outputs.
	AudioExt string

	// ExcludeMarker excludes any file whose name contains it.
	// Used for the instrumental track that sits next to the songs.
	ExcludeMarker string
}

// DefaultLayout returns the standard layout rooted at baseDir.
func DefaultLayout(baseDir string) Layout {
	return Layout{
		BaseDir:       baseDir,
		TrainingDir:   "train",
		OutputDir:     "Isolated_Vocals",
		OutputSuffix:  "_Isolated_Vocals",
		AudioExt:      ".mp3",
		ExcludeMarker: "Instrumental",
	}
}

// Selection is the (group, member, song) triple chosen by the user.
// Fields are filled in one prompt at a time; Song is a bare file name.
type Selection struct {
	Group  string
	Member string
	Song   string
}

// TrainingDir returns <base>/<Group>/<Member>/<train>.
func (s Selection) TrainingDir(l Layout) string {
	return filepath.Join(l.BaseDir, s.Group, s.Member, l.TrainingDir)
}

// InputPath returns the full path of the selected song.
func (s Selection) InputPath(l Layout) string {
	return filepath.Join(s.TrainingDir(l), s.Song)
}

// OutputDir returns the folder receiving processed songs.
func (s Selection) OutputDir(l Layout) string {
	return filepath.Join(s.TrainingDir(l), l.OutputDir)
}

// OutputPath returns the processed file path for the selected song.
func (s Selection) OutputPath(l Layout) string {
	return filepath.Join(s.OutputDir(l), OutputName(s.Song, l))
}

// WithSong returns a copy of s for another song of the same member.
func (s Selection) WithSong(song string) Selection {
	s.Song = song
	return s
}

// OutputName derives the output file name for song.
//
// The trailing audio extension is replaced by OutputSuffix + AudioExt:
//
//	OutputName("song.mp3", DefaultLayout("")) // "song_Isolated_Vocals.mp3"
//
// A name without the extension keeps its full name as the stem.
func OutputName(song string, l Layout) string {
	return Stem(song, l) + l.OutputSuffix + l.AudioExt
}

// Stem returns song without its trailing audio extension.
func Stem(song string, l Layout) string {
	if l.AudioExt != "" && strings.HasSuffix(song, l.AudioExt) {
		return strings.TrimSuffix(song, l.AudioExt)
	}
	return song
}

// IsEligible reports whether name is a selectable song under l:
// it ends in AudioExt and does not contain ExcludeMarker.
func IsEligible(name string, l Layout) bool {
	if !strings.HasSuffix(name, l.AudioExt) {
		return false
	}
	if l.ExcludeMarker != "" && strings.Contains(name, l.ExcludeMarker) {
		return false
	}
	return true
}
