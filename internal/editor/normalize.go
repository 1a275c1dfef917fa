package editor

import (
	"regexp"
	"strings"

	"lsb-music/internal/model"
)

// Older stored entries predate the notes column and the explicit exercise id;
// back then the id only lived inside the display label, e.g.
// "Circle of greeting [id 14a]".
var labelIDPattern = regexp.MustCompile(`\[id ([^\]]+)\]\s*$`)

// NormalizeEntry fills the defaults a legacy row may be missing: empty notes
// and an exercise id recovered from the label. Applying it to an
// already-normalized entry changes nothing.
func NormalizeEntry(e model.SessionEntry) Entry {
	entry := Entry{
		ExerciseID: strings.TrimSpace(e.ExerciseID),
		Label:      e.ExerciseLabel,
		Notes:      e.Notes,
	}
	if e.SongRef != nil {
		entry.SongRef = *e.SongRef
	}
	if entry.ExerciseID == "" {
		if m := labelIDPattern.FindStringSubmatch(entry.Label); m != nil {
			entry.ExerciseID = strings.TrimSpace(m[1])
		}
	}
	return entry
}
