package audio

import (
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/vocal-isolator/internal/model"
)

// IsolatedTitleSuffix is appended to the title of processed songs.
const IsolatedTitleSuffix = " (Isolated Vocals)"

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag from the selection.
	TagModify

	// TagDoNotModify leaves the value ffmpeg copied from the source.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field written to
// processed songs.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Artist:     TagModify,      // member name
//	    Album:      TagModify,      // group name
//	    Title:      TagModify,      // "<title> (Isolated Vocals)"
//	    Comment:    TagModify,      // filter used
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, TagIsolated does nothing.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Comment controls the COMM (Comments) frame.
	Comment TagEditAction
}

// DefaultTagConfig returns the default tag configuration: every field is
// set to TagModify.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Artist:     TagModify,
		Album:      TagModify,
		Title:      TagModify,
		Comment:    TagModify,
	}
}

// Tagger reads and writes ID3 tags on MP3 files.
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Describe returns "Artist - Title" from the file's ID3 tags.
//
// Either part may be missing, in which case only the other is returned.
// Files without tags, or that cannot be read, yield an empty string.
func (t *Tagger) Describe(path string) string {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer tag.Close()

	artist := strings.TrimSpace(tag.Artist())
	title := strings.TrimSpace(tag.Title())
	switch {
	case artist != "" && title != "":
		return artist + " - " + title
	case title != "":
		return title
	default:
		return artist
	}
}

// Title returns the ID3 title of path, or "" when it has none.
func (t *Tagger) Title(path string) string {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil {
		return ""
	}
	defer tag.Close()
	return strings.TrimSpace(tag.Title())
}

// TagIsolated writes ID3 tags to a processed song at path.
//
// ffmpeg copies the source's tags into its output, so the existing title
// is reused when present. filter is recorded in a comment frame.
func (t *Tagger) TagIsolated(path string, sel model.Selection, layout model.Layout, filter string) error {
	if !t.config.ModifyTags {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(sel.Member)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(sel.Group)
	}

	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(isolatedTitle(tag.Title(), sel.Song, layout))
	}

	// Comments (COMM)
	switch t.config.Comment {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "vocal-isolator",
			Text:        filter,
		})
	}

	return tag.Save()
}

func isolatedTitle(current, song string, layout model.Layout) string {
	title := strings.TrimSpace(current)
	if title == "" {
		title = model.Stem(song, layout)
	}
	if strings.HasSuffix(title, IsolatedTitleSuffix) {
		return title
	}
	return title + IsolatedTitleSuffix
}
