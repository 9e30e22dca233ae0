// Package audio provides audio file metadata services: ID3 tag reading
// and writing, and playlist generation for processed songs.
//
// # ID3 Tagging
//
// Use the Tagger to describe a source song and to tag a processed one:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	detail := tagger.Describe("/data/ITZY/Yeji/train/Track1.mp3") // "ITZY - Track 1"
//	err := tagger.TagIsolated(outputPath, selection, layout, filter)
//
// TagIsolated sets:
//   - Artist to the member
//   - Album to the group
//   - Title to the source title (or file stem) plus " (Isolated Vocals)"
//   - A comment recording the ffmpeg filter that produced the file
//
// # Playlist Generation
//
// Generate a playlist of every processed song in an output folder:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("Yeji", entries)
//	os.WriteFile("Isolated_Vocals.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
