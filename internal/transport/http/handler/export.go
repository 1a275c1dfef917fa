package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lsb-music/internal/app"
	"lsb-music/internal/exporter"
	"lsb-music/internal/transport/http/response"
)

// ExportHandler writes an M3U playlist for a saved session on demand, the
// same path the background worker takes after an autosave.
type ExportHandler struct {
	sessions  *app.SessionService
	playlists *exporter.PlaylistExporter
}

func NewExportHandler(sessions *app.SessionService, playlists *exporter.PlaylistExporter) *ExportHandler {
	return &ExportHandler{sessions: sessions, playlists: playlists}
}

func (h *ExportHandler) Export(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load session failed")
		}
		return
	}

	path, count, err := h.playlists.Export(c.Request.Context(), *session)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "export playlist failed")
		return
	}

	response.OK(c, gin.H{
		"playlist_path": path,
		"song_count":    count,
	})
}
