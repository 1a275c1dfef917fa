// Package exporter turns a saved session into an M3U playlist. It consumes
// the read-only (metadata, ordered entries) snapshot shape and nothing more.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lsb-music/internal/model"
)

// SongResolver maps an entry's song reference to catalogue metadata.
type SongResolver interface {
	LookupSong(ctx context.Context, ref string) (*model.Song, error)
}

type PlaylistExporter struct {
	songs      SongResolver
	exportPath string
	musicRoot  string
}

func NewPlaylistExporter(songs SongResolver, exportPath, musicRoot string) *PlaylistExporter {
	return &PlaylistExporter{songs: songs, exportPath: exportPath, musicRoot: musicRoot}
}

// Export writes "<name>.m3u" with one line per playable entry, in session
// order. Entries without a song, unknown references and non-audio files are
// skipped. Returns the playlist path and how many songs it holds; a session
// with nothing playable produces no file.
func (e *PlaylistExporter) Export(ctx context.Context, session model.Session) (string, int, error) {
	paths := make([]string, 0, len(session.Entries))
	for _, entry := range session.Entries {
		if entry.SongRef == nil || *entry.SongRef == "" {
			continue
		}
		song, err := e.songs.LookupSong(ctx, *entry.SongRef)
		if err != nil || song == nil {
			continue
		}
		path := e.songFilePath(*song)
		if path == "" {
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return "", 0, nil
	}

	if err := os.MkdirAll(e.exportPath, 0o755); err != nil {
		return "", 0, fmt.Errorf("create export directory failed: %w", err)
	}

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	playlistPath := filepath.Join(e.exportPath, sanitizeFilename(session.Name)+".m3u")
	if err := os.WriteFile(playlistPath, []byte(b.String()), 0o644); err != nil {
		return "", 0, fmt.Errorf("write playlist failed: %w", err)
	}
	return playlistPath, len(paths), nil
}

// songFilePath resolves a catalogue song to its file under the music root,
// collection directory first. Only .mp3/.m4a files are playable.
func (e *PlaylistExporter) songFilePath(song model.Song) string {
	if song.Filename == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(song.Filename))
	if ext != ".mp3" && ext != ".m4a" {
		return ""
	}
	return filepath.Join(e.musicRoot, song.CollectionCD, song.Filename)
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		cleaned = "session"
	}
	return cleaned
}
