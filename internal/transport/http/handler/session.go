package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lsb-music/internal/app"
	"lsb-music/internal/editor"
	"lsb-music/internal/transport/http/response"
)

type SessionHandler struct {
	sessions *app.SessionService
}

func NewSessionHandler(sessions *app.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type SaveSessionRequest struct {
	ID              string             `json:"id"`
	Name            string             `json:"name" binding:"required,max=128"`
	Description     string             `json:"description"`
	Date            string             `json:"date" binding:"max=10"`
	Tags            string             `json:"tags" binding:"max=255"`
	ExpectedVersion int64              `json:"expected_version"`
	Entries         []SaveEntryRequest `json:"entries"`
}

type SaveEntryRequest struct {
	ExerciseID    string `json:"exercise_id" binding:"required,max=32"`
	ExerciseLabel string `json:"exercise_label" binding:"max=255"`
	SongRef       string `json:"song_ref" binding:"max=32"`
	Notes         string `json:"notes"`
}

// Save persists a full session snapshot from a remote client. Conflicting
// versions come back as 409 so the client knows to reload before retrying.
func (h *SessionHandler) Save(c *gin.Context) {
	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	snap := editor.Snapshot{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Tags:        req.Tags,
		Version:     req.ExpectedVersion,
	}
	for _, e := range req.Entries {
		snap.Entries = append(snap.Entries, editor.Entry{
			ExerciseID: e.ExerciseID,
			Label:      e.ExerciseLabel,
			SongRef:    e.SongRef,
			Notes:      e.Notes,
		})
	}

	result, err := h.sessions.SaveSnapshot(c.Request.Context(), snap)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNameRequired):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrVersionConflict):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save session failed")
		}
		return
	}

	response.OK(c, gin.H{
		"id":         result.ID,
		"version":    result.Version,
		"updated_at": result.UpdatedAt,
	})
}

func (h *SessionHandler) Get(c *gin.Context) {
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

	response.OK(c, session)
}

func (h *SessionHandler) List(c *gin.Context) {
	summaries, err := h.sessions.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		return
	}
	response.OK(c, summaries)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete session failed")
		return
	}
	// deleting an unknown id is a success by contract
	response.OK(c, gin.H{"deleted_session_id": id})
}
