package model

// Track represents an uploaded audio track with its metadata and engagement.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	BPM         string   `json:"bpm"`
	Mood        string   `json:"mood"`
	AudioFile   string   `json:"audioFile"` // Generated file name under the audio directory
	CoverFile   *string  `json:"coverFile"` // Generated file name under the cover directory, null when absent
	Likes       int      `json:"likes"`
	Comments    []string `json:"comments"`
}

// Default metadata applied when an upload omits a field.
const (
	DefaultTitle = "Ongetitelde transitie"
	DefaultGenre = "Onbekend"
)

// HasCover reports whether a cover image was stored for the track.
func (t Track) HasCover() bool {
	return t.CoverFile != nil && *t.CoverFile != ""
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Track) Clone() Track {
	c := t
	c.Comments = append(make([]string, 0, len(t.Comments)), t.Comments...)
	if t.CoverFile != nil {
		cover := *t.CoverFile
		c.CoverFile = &cover
	}
	return c
}
